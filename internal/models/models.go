// Package models defines the entities shared across the assistant:
// employee records, FAQ entries and submitted HR requests.
package models

import "time"

// Employee is a directory record. Records are read-only for the process
// lifetime; the chatbot never mutates leave balances.
type Employee struct {
	EmployeeID  string `json:"employee_id"`
	FullName    string `json:"full_name"`
	AnnualLeave int    `json:"annual_leave"`
	SickLeave   int    `json:"sick_leave"`
}

// FAQEntry is one curated question/answer pair. The set is externally
// authored and loaded once at startup.
type FAQEntry struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Request types recorded in the hr_requests audit table.
const (
	RequestTypeLeave   = "leave"
	RequestTypeExpense = "expense"
)

// HRRequest is a completed structured-flow submission.
type HRRequest struct {
	ID          int64     `json:"id"`
	RequestType string    `json:"request_type"`
	EmployeeID  string    `json:"employee_id"`
	Summary     string    `json:"summary"`
	Dispatched  bool      `json:"dispatched"`
	CreatedAt   time.Time `json:"created_at"`
}
