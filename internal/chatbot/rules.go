package chatbot

import "strings"

// Intent is the outcome of new-task intent detection
type Intent int

const (
	IntentNone Intent = iota
	IntentExpense
	IntentLeave
)

// intentRule pairs a predicate with the intent it triggers. Rules are
// evaluated in slice order and the first match wins, which makes the
// expense-before-leave tie-break explicit and testable: a message
// matching both is routed to the expense flow.
type intentRule struct {
	name   string
	intent Intent
	match  func(lower string) bool
}

var expenseActionWords = []string{"file", "claim", "submit", "add", "new"}
var expenseTopicWords = []string{"expense", "reimbursement"}

var intentRules = []intentRule{
	{
		name:   "expense",
		intent: IntentExpense,
		match: func(lower string) bool {
			return containsAny(lower, expenseActionWords) && containsAny(lower, expenseTopicWords)
		},
	},
	{
		name:   "leave",
		intent: IntentLeave,
		match: func(lower string) bool {
			return strings.Contains(lower, "apply") && strings.Contains(lower, "leave")
		},
	},
}

// DetectIntent scans a lowercased message against the ordered rule list
func DetectIntent(lower string) Intent {
	for _, rule := range intentRules {
		if rule.match(lower) {
			return rule.intent
		}
	}
	return IntentNone
}

// leaveTypes is the fixed vocabulary scanned at the leave type step
var leaveTypes = []string{"sick", "casual", "maternity", "paternity", "bereavement", "unpaid"}

// MatchLeaveType scans a message for a known leave type as a
// case-insensitive substring. The first vocabulary match wins and is
// returned capitalized.
func MatchLeaveType(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, lt := range leaveTypes {
		if strings.Contains(lower, lt) {
			return strings.ToUpper(lt[:1]) + lt[1:], true
		}
	}
	return "", false
}

// LeaveTypeVocabulary returns the accepted leave types for prompts
func LeaveTypeVocabulary() string {
	return strings.Join(leaveTypes, ", ")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
