package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/claimform"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// Directory resolves a free-text token to an employee record
type Directory interface {
	Lookup(ctx context.Context, employeeID string) (*models.Employee, bool)
}

// Notifier delivers a formatted message to a mailbox. It reports success
// or failure and never raises.
type Notifier interface {
	Send(to, subject, body string, attachments ...string) bool
}

// FAQMatcher answers from the curated FAQ set when similarity is high enough
type FAQMatcher interface {
	Match(ctx context.Context, query string) (string, bool)
}

// PolicyEngine answers free-form questions from the policy corpus
type PolicyEngine interface {
	Ask(ctx context.Context, question string) (string, error)
}

// FormGenerator produces the claim form attached to expense submissions
type FormGenerator interface {
	Generate(emp *models.Employee, claim *claimform.Claim) (string, error)
}

// RequestLog records completed submissions
type RequestLog interface {
	Create(ctx context.Context, req *models.HRRequest) error
	MarkDispatched(ctx context.Context, id int64) error
}

// Router is the conversation task router. Each inbound message is routed
// by the session's current task and the message content, in fixed
// priority order: active flow, pending identification, new task intent,
// identity bootstrap, personal-data shortcuts, FAQ short-circuit, policy
// retrieval fallback.
type Router struct {
	sessions     *Store
	directory    Directory
	notifier     Notifier
	faq          FAQMatcher
	engine       PolicyEngine
	forms        FormGenerator
	requests     RequestLog
	hrEmail      string
	financeEmail string
	logger       *zap.Logger
}

// NewRouter creates a new conversation task router
func NewRouter(
	sessions *Store,
	directory Directory,
	notifier Notifier,
	faq FAQMatcher,
	engine PolicyEngine,
	forms FormGenerator,
	requests RequestLog,
	hrEmail, financeEmail string,
	logger *zap.Logger,
) *Router {
	return &Router{
		sessions:     sessions,
		directory:    directory,
		notifier:     notifier,
		faq:          faq,
		engine:       engine,
		forms:        forms,
		requests:     requests,
		hrEmail:      hrEmail,
		financeEmail: financeEmail,
		logger:       logger,
	}
}

// Sessions exposes the session store for the reset endpoint
func (r *Router) Sessions() *Store {
	return r.sessions
}

// Answer handles one inbound message for one session. Every branch
// recovers its own failures into conversational text, except the policy
// retrieval fallback: its error is returned and surfaced by the HTTP
// layer as a generic error payload.
func (r *Router) Answer(ctx context.Context, sessionID, message string) (string, error) {
	s, release := r.sessions.Acquire(sessionID)
	defer release()

	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)

	// An active flow owns the whole turn; no other branch is consulted.
	switch {
	case s.Task == TaskApplyLeave:
		return r.handleLeaveTurn(ctx, s, msg, lower), nil
	case s.Task == TaskApplyExpense:
		return r.handleExpenseTurn(ctx, s, msg, lower), nil
	case s.Task.IsAwaitingID():
		return r.handleIdentification(ctx, s, msg), nil
	}

	switch DetectIntent(lower) {
	case IntentExpense:
		s.Expense = ExpenseDraft{}
		if s.Employee == nil {
			s.Task = TaskAwaitingIDExpense
			return msgAskEmployeeID, nil
		}
		s.Task = TaskApplyExpense
		return expenseStartPrompt(s.Employee), nil
	case IntentLeave:
		s.Leave = LeaveDraft{}
		if s.Employee == nil {
			s.Task = TaskAwaitingIDLeave
			return msgAskEmployeeID, nil
		}
		s.Task = TaskApplyLeave
		return leaveStartPrompt(s.Employee), nil
	}

	// Identity bootstrap: the whole message may be an employee id.
	if s.Employee == nil {
		if emp, ok := r.directory.Lookup(ctx, msg); ok {
			s.Employee = emp
			r.logger.Info("Employee identified",
				zap.String("session_id", s.ID),
				zap.String("employee_id", emp.EmployeeID))
			return fmt.Sprintf("Hello %s! How can I help you today? You can ask me about company policy, apply for leave, or file an expense claim.", emp.FullName), nil
		}
	}

	if s.Employee != nil {
		if answer, ok := personalDataAnswer(s.Employee, lower); ok {
			return answer, nil
		}
	}

	if answer, ok := r.faq.Match(ctx, msg); ok {
		return answer, nil
	}

	return r.engine.Ask(ctx, msg)
}

// handleIdentification treats the message as a candidate employee id for
// a pending flow. On failure the state is left unchanged so the user may
// retry or abandon.
func (r *Router) handleIdentification(ctx context.Context, s *Session, msg string) string {
	emp, ok := r.directory.Lookup(ctx, msg)
	if !ok {
		return "I couldn't find that employee ID. Please try again, or ask me a policy question instead."
	}

	s.Employee = emp
	r.logger.Info("Employee identified for pending task",
		zap.String("session_id", s.ID),
		zap.String("employee_id", emp.EmployeeID),
		zap.String("task", s.Task.String()))

	if s.Task == TaskAwaitingIDExpense {
		s.Task = TaskApplyExpense
		return expenseStartPrompt(emp)
	}
	s.Task = TaskApplyLeave
	return leaveStartPrompt(emp)
}

// personalDataAnswer serves stored-identity shortcuts
func personalDataAnswer(emp *models.Employee, lower string) (string, bool) {
	switch {
	case strings.Contains(lower, "my name"):
		return fmt.Sprintf("Your name is %s.", emp.FullName), true
	case strings.Contains(lower, "my employee id"), strings.Contains(lower, "my id"):
		return fmt.Sprintf("Your employee ID is %s.", emp.EmployeeID), true
	case strings.Contains(lower, "my leave"), strings.Contains(lower, "how many leave"):
		return fmt.Sprintf("You have %d annual leave days and %d sick leave days remaining.",
			emp.AnnualLeave, emp.SickLeave), true
	}
	return "", false
}

const msgAskEmployeeID = "Sure! First, please share your employee ID so I can look up your records."

func leaveStartPrompt(emp *models.Employee) string {
	return fmt.Sprintf("Hello %s! You have %d annual leave days and %d sick leave days remaining. What type of leave would you like to apply for? (%s)",
		emp.FullName, emp.AnnualLeave, emp.SickLeave, LeaveTypeVocabulary())
}

func expenseStartPrompt(emp *models.Employee) string {
	return fmt.Sprintf("Hello %s! You have %d annual leave days and %d sick leave days remaining. Let's file your expense claim. What category is this expense? (e.g. travel, meals, equipment)",
		emp.FullName, emp.AnnualLeave, emp.SickLeave)
}
