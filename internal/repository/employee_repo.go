package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// EmployeeRepository provides read access to the employee directory
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// Lookup resolves an employee id to a directory record. The match is
// case-insensitive and exact. A missing record or a read failure both
// report not-found; failures are logged, never surfaced to the caller.
func (r *EmployeeRepository) Lookup(ctx context.Context, employeeID string) (*models.Employee, bool) {
	query := `
		SELECT employee_id, full_name, annual_leave, sick_leave
		FROM employees
		WHERE employee_id = ? COLLATE NOCASE
	`

	var emp models.Employee
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(employeeID)).Scan(
		&emp.EmployeeID,
		&emp.FullName,
		&emp.AnnualLeave,
		&emp.SickLeave,
	)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		r.logger.Error("Failed to look up employee",
			zap.String("employee_id", employeeID),
			zap.Error(err))
		return nil, false
	}

	return &emp, true
}

// Upsert inserts or replaces an employee record
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (employee_id, full_name, annual_leave, sick_leave)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			full_name = excluded.full_name,
			annual_leave = excluded.annual_leave,
			sick_leave = excluded.sick_leave,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.EmployeeID,
		emp.FullName,
		emp.AnnualLeave,
		emp.SickLeave,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert employee %s: %w", emp.EmployeeID, err)
	}

	return nil
}

// Count returns the number of directory records
func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}
