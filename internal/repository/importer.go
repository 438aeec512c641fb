package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// Importer seeds the employee directory and FAQ corpus from JSON files at
// startup. Both collections are treated as externally authored data and
// loaded with last-write-wins upserts.
type Importer struct {
	employees *EmployeeRepository
	faq       *FAQRepository
	logger    *zap.Logger
}

// NewImporter creates a new seed importer
func NewImporter(employees *EmployeeRepository, faq *FAQRepository, logger *zap.Logger) *Importer {
	return &Importer{
		employees: employees,
		faq:       faq,
		logger:    logger,
	}
}

// ImportEmployees loads employee records from a JSON file into the directory
func (i *Importer) ImportEmployees(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read employee seed %s: %w", path, err)
	}

	var records []models.Employee
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse employee seed %s: %w", path, err)
	}

	for idx := range records {
		if err := i.employees.Upsert(ctx, &records[idx]); err != nil {
			return err
		}
	}

	i.logger.Info("Employee directory seeded",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return nil
}

// ImportFAQ loads FAQ entries from a JSON file into the corpus
func (i *Importer) ImportFAQ(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read FAQ seed %s: %w", path, err)
	}

	var entries []models.FAQEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse FAQ seed %s: %w", path, err)
	}

	for idx := range entries {
		if err := i.faq.Upsert(ctx, &entries[idx]); err != nil {
			return err
		}
	}

	i.logger.Info("FAQ corpus seeded",
		zap.String("path", path),
		zap.Int("entries", len(entries)))
	return nil
}
