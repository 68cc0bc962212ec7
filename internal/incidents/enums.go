package incidents

import "fmt"

type Severity string
type Status string

const (
	SeveritySev1 Severity = "sev1"
	SeveritySev2 Severity = "sev2"
	SeveritySev3 Severity = "sev3"
	SeveritySev4 Severity = "sev4"
)

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusMitigated     Status = "mitigated"
	StatusResolved      Status = "resolved"
)

// Severities lists every severity in declaration order.
var Severities = []Severity{SeveritySev1, SeveritySev2, SeveritySev3, SeveritySev4}

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusInvestigating, StatusMitigated, StatusResolved}

func (s Severity) Valid() bool {
	switch s {
	case SeveritySev1, SeveritySev2, SeveritySev3, SeveritySev4:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInvestigating, StatusMitigated, StatusResolved:
		return true
	}
	return false
}

// ParseSeverity converts a raw value such as "sev2" into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

// ParseStatus converts a raw value such as "open" into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}
