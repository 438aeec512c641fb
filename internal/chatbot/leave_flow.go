package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/email"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// handleLeaveTurn advances the leave application by exactly one field
// per turn: type, dates, then confirmation.
func (r *Router) handleLeaveTurn(ctx context.Context, s *Session, msg, lower string) string {
	// Unreachable under correct routing: a confirmed draft is dispatched
	// and reset in the same turn it was confirmed.
	if s.Leave.Confirmed {
		r.logger.Error("Leave flow entered with confirmed draft, resetting",
			zap.String("session_id", s.ID))
		s.ResetFlow()
		return msgSomethingWentWrong
	}

	switch {
	case s.Leave.Type == "":
		leaveType, ok := MatchLeaveType(msg)
		if !ok {
			return fmt.Sprintf("I didn't recognize that leave type. Please choose one of: %s.", LeaveTypeVocabulary())
		}
		s.Leave.Type = leaveType
		return "Got it. Which dates would you like to take off? (e.g. \"March 5\" or \"April 10 to April 14\")"

	case s.Leave.Dates == "":
		s.Leave.Dates = msg
		return fmt.Sprintf("Please confirm your leave application:\n- Employee: %s (%s)\n- Leave type: %s\n- Dates: %s\nReply \"yes\" to submit, or anything else to cancel.",
			s.Employee.FullName, s.Employee.EmployeeID, s.Leave.Type, s.Leave.Dates)

	default:
		if !strings.Contains(lower, "yes") {
			s.ResetFlow()
			return "No problem, I've cancelled the leave application. Let me know if you need anything else."
		}
		s.Leave.Confirmed = true
		return r.dispatchLeave(ctx, s)
	}
}

// dispatchLeave records the submission, emails HR and resets the flow
func (r *Router) dispatchLeave(ctx context.Context, s *Session) string {
	emp := s.Employee
	fields := map[string]string{
		"Employee":   fmt.Sprintf("%s (%s)", emp.FullName, emp.EmployeeID),
		"Leave type": s.Leave.Type,
		"Dates":      s.Leave.Dates,
	}
	body := email.BuildRequestBody("New leave application", fields, []string{"Employee", "Leave type", "Dates"})
	subject := fmt.Sprintf("Leave Application - %s (%s)", emp.FullName, emp.EmployeeID)

	req := &models.HRRequest{
		RequestType: models.RequestTypeLeave,
		EmployeeID:  emp.EmployeeID,
		Summary:     fmt.Sprintf("%s leave, %s", s.Leave.Type, s.Leave.Dates),
	}
	if err := r.requests.Create(ctx, req); err != nil {
		r.logger.Error("Failed to record leave request", zap.Error(err))
	}

	sent := r.notifier.Send(r.hrEmail, subject, body)
	if sent && req.ID != 0 {
		if err := r.requests.MarkDispatched(ctx, req.ID); err != nil {
			r.logger.Error("Failed to mark leave request dispatched", zap.Error(err))
		}
	}

	s.ResetFlow()

	if !sent {
		return "Your leave application has been recorded, but the notification email to HR could not be delivered. HR will pick it up from the request log."
	}
	return "Your leave application has been submitted to HR. Is there anything else I can help you with?"
}

const msgSomethingWentWrong = "Something went wrong with your request. Let's start over - how can I help you?"
