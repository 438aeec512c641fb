package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/claimform"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/email"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/models"
	"go.uber.org/zap"
)

// ReceiptMarker is the literal chat-message prefix that signals a
// completed upload. The upload endpoint returns a stored file path and
// the client echoes it back as "receipt_uploaded:<path>"; this is the
// hand-off contract between the two interfaces.
const ReceiptMarker = "receipt_uploaded:"

// handleExpenseTurn advances the expense claim by exactly one field per
// turn: category, amount, date, receipt, then confirmation. The receipt
// step re-prompts without advancing until the upload marker arrives.
func (r *Router) handleExpenseTurn(ctx context.Context, s *Session, msg, lower string) string {
	// Unreachable under correct routing, same guard as the leave flow.
	if s.Expense.Confirmed {
		r.logger.Error("Expense flow entered with confirmed draft, resetting",
			zap.String("session_id", s.ID))
		s.ResetFlow()
		return msgSomethingWentWrong
	}

	switch {
	case s.Expense.Category == "":
		s.Expense.Category = msg
		return "How much was the expense? Please include the currency."

	case s.Expense.Amount == "":
		s.Expense.Amount = msg
		return "When was the expense incurred?"

	case s.Expense.Date == "":
		s.Expense.Date = msg
		return "Please upload your receipt now. Once uploaded, it will be attached automatically."

	case s.Expense.ReceiptPath == "":
		if !strings.HasPrefix(lower, ReceiptMarker) {
			return "I still need your receipt. Please upload it using the attachment button."
		}
		s.Expense.ReceiptPath = strings.TrimSpace(msg[len(ReceiptMarker):])
		return fmt.Sprintf("Please confirm your expense claim:\n- Employee: %s (%s)\n- Category: %s\n- Amount: %s\n- Date: %s\n- Receipt: %s\nReply \"yes\" to submit, or anything else to cancel.",
			s.Employee.FullName, s.Employee.EmployeeID,
			s.Expense.Category, s.Expense.Amount, s.Expense.Date,
			email.AttachmentName(s.Expense.ReceiptPath))

	default:
		if !strings.Contains(lower, "yes") {
			s.ResetFlow()
			return "No problem, I've cancelled the expense claim. Let me know if you need anything else."
		}
		s.Expense.Confirmed = true
		return r.dispatchExpense(ctx, s)
	}
}

// dispatchExpense records the submission, generates the claim form,
// emails Finance with the form and receipt attached, and resets the flow.
func (r *Router) dispatchExpense(ctx context.Context, s *Session) string {
	emp := s.Employee
	claim := &claimform.Claim{
		Category:    s.Expense.Category,
		Amount:      s.Expense.Amount,
		ExpenseDate: s.Expense.Date,
		ReceiptPath: s.Expense.ReceiptPath,
	}

	fields := map[string]string{
		"Employee": fmt.Sprintf("%s (%s)", emp.FullName, emp.EmployeeID),
		"Category": s.Expense.Category,
		"Amount":   s.Expense.Amount,
		"Date":     s.Expense.Date,
		"Receipt":  email.AttachmentName(s.Expense.ReceiptPath),
	}
	body := email.BuildRequestBody("New expense claim", fields,
		[]string{"Employee", "Category", "Amount", "Date", "Receipt"})
	subject := fmt.Sprintf("Expense Claim - %s (%s)", emp.FullName, emp.EmployeeID)

	req := &models.HRRequest{
		RequestType: models.RequestTypeExpense,
		EmployeeID:  emp.EmployeeID,
		Summary:     fmt.Sprintf("%s, %s on %s", s.Expense.Category, s.Expense.Amount, s.Expense.Date),
	}
	if err := r.requests.Create(ctx, req); err != nil {
		r.logger.Error("Failed to record expense request", zap.Error(err))
	}

	attachments := []string{s.Expense.ReceiptPath}
	formPath, err := r.forms.Generate(emp, claim)
	if err != nil {
		r.logger.Error("Failed to generate claim form, sending without it", zap.Error(err))
	} else {
		attachments = append([]string{formPath}, attachments...)
	}

	sent := r.notifier.Send(r.financeEmail, subject, body, attachments...)
	if sent && req.ID != 0 {
		if err := r.requests.MarkDispatched(ctx, req.ID); err != nil {
			r.logger.Error("Failed to mark expense request dispatched", zap.Error(err))
		}
	}

	s.ResetFlow()

	if !sent {
		return "Your expense claim has been recorded, but the notification email to Finance could not be delivered. Finance will pick it up from the request log."
	}
	return "Your expense claim has been submitted to Finance. Is there anything else I can help you with?"
}
