// Package chatbot implements the conversation task router: per-session
// state, ordered intent detection, and the leave and expense structured
// flows.
package chatbot

import "github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"

// Task identifies which handler receives the next message of a session
type Task string

const (
	TaskNone              Task = "NONE"
	TaskAwaitingIDLeave   Task = "AWAITING_ID_LEAVE"
	TaskAwaitingIDExpense Task = "AWAITING_ID_EXPENSE"
	TaskApplyLeave        Task = "APPLY_LEAVE"
	TaskApplyExpense      Task = "APPLY_EXPENSE"
)

var validTasks = map[Task]bool{
	TaskNone:              true,
	TaskAwaitingIDLeave:   true,
	TaskAwaitingIDExpense: true,
	TaskApplyLeave:        true,
	TaskApplyExpense:      true,
}

// IsValid returns true if the task is a known task state
func (t Task) IsValid() bool {
	return validTasks[t]
}

// IsActiveFlow returns true if a structured flow is collecting fields
func (t Task) IsActiveFlow() bool {
	return t == TaskApplyLeave || t == TaskApplyExpense
}

// IsAwaitingID returns true if the session is waiting for an employee id
func (t Task) IsAwaitingID() bool {
	return t == TaskAwaitingIDLeave || t == TaskAwaitingIDExpense
}

// String returns the string representation of the task
func (t Task) String() string {
	return string(t)
}

// LeaveDraft holds the leave-flow fields, populated strictly in order:
// Type, then Dates, then confirmation.
type LeaveDraft struct {
	Type      string
	Dates     string
	Confirmed bool
}

// ExpenseDraft holds the expense-flow fields, populated strictly in
// order: Category, Amount, Date, ReceiptPath, then confirmation.
type ExpenseDraft struct {
	Category    string
	Amount      string
	Date        string
	ReceiptPath string
	Confirmed   bool
}

// Session is the mutable record of one conversation: the task in
// progress, the resolved identity, and the per-flow drafts. Exactly one
// task may be in progress at a time; the router only dispatches on Task
// and never merges two flows.
type Session struct {
	ID       string
	Task     Task
	Employee *models.Employee
	Leave    LeaveDraft
	Expense  ExpenseDraft
}

// ResetFlow clears the task and both drafts. The resolved identity is
// retained so a second flow can start without re-identification.
func (s *Session) ResetFlow() {
	s.Task = TaskNone
	s.Leave = LeaveDraft{}
	s.Expense = ExpenseDraft{}
}

// Clear resets the session to its initial empty state, identity included
func (s *Session) Clear() {
	s.ResetFlow()
	s.Employee = nil
}
