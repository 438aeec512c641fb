// Package claimform generates the spreadsheet claim form attached to the
// Finance mailbox when an expense claim completes.
package claimform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Claim holds the collected expense-flow fields for one submission
type Claim struct {
	Category    string
	Amount      string
	ExpenseDate string
	ReceiptPath string
}

// Generator writes xlsx expense claim forms into an output directory
type Generator struct {
	outputDir string
	logger    *zap.Logger
}

// NewGenerator creates a new claim form generator
func NewGenerator(outputDir string, logger *zap.Logger) (*Generator, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Generator{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// Generate writes a claim form for one employee and returns its path
func (g *Generator) Generate(emp *models.Employee, claim *Claim) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	setCell := func(cell string, value interface{}) {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			g.logger.Warn("Failed to set cell value",
				zap.String("cell", cell),
				zap.Error(err))
		}
	}

	setCell("A1", "Expense Claim Form")
	setCell("A3", "Employee ID")
	setCell("B3", emp.EmployeeID)
	setCell("A4", "Employee Name")
	setCell("B4", emp.FullName)
	setCell("A5", "Expense Category")
	setCell("B5", claim.Category)
	setCell("A6", "Amount")
	setCell("B6", claim.Amount)
	setCell("A7", "Expense Date")
	setCell("B7", claim.ExpenseDate)
	setCell("A8", "Receipt")
	setCell("B8", filepath.Base(claim.ReceiptPath))
	setCell("A9", "Submitted At")
	setCell("B9", time.Now().Format("2006-01-02 15:04"))

	name := fmt.Sprintf("expense_claim_%s_%s.xlsx", emp.EmployeeID, time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(g.outputDir, name)

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save claim form: %w", err)
	}

	g.logger.Info("Expense claim form generated",
		zap.String("employee_id", emp.EmployeeID),
		zap.String("path", outputPath))
	return outputPath, nil
}
