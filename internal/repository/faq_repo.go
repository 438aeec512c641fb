package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// FAQRepository provides access to the curated FAQ corpus
type FAQRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFAQRepository creates a new FAQ repository
func NewFAQRepository(db *sql.DB, logger *zap.Logger) *FAQRepository {
	return &FAQRepository{
		db:     db,
		logger: logger,
	}
}

// ListAll returns every FAQ entry in insertion order
func (r *FAQRepository) ListAll(ctx context.Context) ([]models.FAQEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, question, answer FROM faq_entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list FAQ entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FAQEntry
	for rows.Next() {
		var e models.FAQEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan FAQ entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Upsert inserts or replaces an FAQ entry keyed by question text. The FAQ
// source is externally authored; a duplicate question simply overwrites
// the earlier answer (last write wins), no reconciliation is attempted.
func (r *FAQRepository) Upsert(ctx context.Context, entry *models.FAQEntry) error {
	query := `
		INSERT INTO faq_entries (question, answer)
		VALUES (?, ?)
		ON CONFLICT(question) DO UPDATE SET
			answer = excluded.answer,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query, entry.Question, entry.Answer)
	if err != nil {
		return fmt.Errorf("failed to upsert FAQ entry: %w", err)
	}

	return nil
}
