package chatbot

import (
	"testing"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
)

func TestTaskPredicates(t *testing.T) {
	tests := []struct {
		task       Task
		valid      bool
		activeFlow bool
		awaitingID bool
	}{
		{TaskNone, true, false, false},
		{TaskAwaitingIDLeave, true, false, true},
		{TaskAwaitingIDExpense, true, false, true},
		{TaskApplyLeave, true, true, false},
		{TaskApplyExpense, true, true, false},
		{Task("BOGUS"), false, false, false},
		{Task(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			if got := tt.task.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.task.IsActiveFlow(); got != tt.activeFlow {
				t.Errorf("IsActiveFlow() = %v, want %v", got, tt.activeFlow)
			}
			if got := tt.task.IsAwaitingID(); got != tt.awaitingID {
				t.Errorf("IsAwaitingID() = %v, want %v", got, tt.awaitingID)
			}
		})
	}
}

func TestSessionResetFlow(t *testing.T) {
	s := Session{
		ID:       "s1",
		Task:     TaskApplyLeave,
		Employee: &models.Employee{EmployeeID: "MPC101", FullName: "Ananya Sharma"},
		Leave:    LeaveDraft{Type: "Sick", Dates: "March 5"},
		Expense:  ExpenseDraft{Category: "travel"},
	}

	s.ResetFlow()

	if s.Task != TaskNone {
		t.Errorf("Task = %v, want %v", s.Task, TaskNone)
	}
	if s.Leave != (LeaveDraft{}) {
		t.Errorf("Leave draft not cleared: %+v", s.Leave)
	}
	if s.Expense != (ExpenseDraft{}) {
		t.Errorf("Expense draft not cleared: %+v", s.Expense)
	}
	if s.Employee == nil {
		t.Error("ResetFlow must retain the resolved identity")
	}
}

func TestSessionClear(t *testing.T) {
	s := Session{
		ID:       "s1",
		Task:     TaskApplyExpense,
		Employee: &models.Employee{EmployeeID: "MPC101"},
		Expense:  ExpenseDraft{Category: "meals", Amount: "30 USD"},
	}

	s.Clear()

	if s.Task != TaskNone {
		t.Errorf("Task = %v, want %v", s.Task, TaskNone)
	}
	if s.Employee != nil {
		t.Error("Clear must drop the resolved identity")
	}
}
