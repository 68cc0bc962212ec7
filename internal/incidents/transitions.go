package incidents

import "fmt"

// allowedTransitions maps a current status to the statuses it may move to.
// Self-loops are always present; resolved is terminal.
var allowedTransitions = map[Status][]Status{
	StatusOpen:          {StatusOpen, StatusInvestigating},
	StatusInvestigating: {StatusInvestigating, StatusMitigated, StatusResolved},
	StatusMitigated:     {StatusMitigated, StatusResolved},
	StatusResolved:      {StatusResolved},
}

// CanTransition reports whether an incident in status from may move to to.
// A status missing from the table may only stay where it is.
func CanTransition(from, to Status) bool {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return from == to
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a ValidationError naming both statuses when the
// move is not in the table.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return newValidationError(fmt.Sprintf("invalid status transition: %s -> %s", from, to))
	}
	return nil
}
