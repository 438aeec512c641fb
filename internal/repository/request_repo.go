package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// RequestRepository records completed structured-flow submissions
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) *RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new HR request record
func (r *RequestRepository) Create(ctx context.Context, req *models.HRRequest) error {
	query := `
		INSERT INTO hr_requests (request_type, employee_id, summary, dispatched)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		req.RequestType,
		req.EmployeeID,
		req.Summary,
		req.Dispatched,
	)
	if err != nil {
		r.logger.Error("Failed to record HR request",
			zap.String("request_type", req.RequestType),
			zap.Error(err))
		return fmt.Errorf("failed to record HR request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// MarkDispatched flags a recorded request as successfully emailed
func (r *RequestRepository) MarkDispatched(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE hr_requests SET dispatched = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark request dispatched: %w", err)
	}
	return nil
}

// ListByEmployee returns requests submitted by one employee, newest first
func (r *RequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.HRRequest, error) {
	query := `
		SELECT id, request_type, employee_id, summary, dispatched, created_at
		FROM hr_requests
		WHERE employee_id = ? COLLATE NOCASE
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list HR requests: %w", err)
	}
	defer rows.Close()

	var requests []models.HRRequest
	for rows.Next() {
		var req models.HRRequest
		var dispatched sql.NullBool
		if err := rows.Scan(&req.ID, &req.RequestType, &req.EmployeeID, &req.Summary, &dispatched, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan HR request: %w", err)
		}
		req.Dispatched = dispatched.Valid && dispatched.Bool
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
