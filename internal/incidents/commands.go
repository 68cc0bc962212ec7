package incidents

import "time"

type CreateIncidentCmd struct {
	Title       string
	Description string
	Severity    Severity
	// Status defaults to StatusOpen when empty.
	Status Status
}

// UpdateIncidentCmd is a partial update: nil fields are left unchanged.
type UpdateIncidentCmd struct {
	Title       *string
	Description *string
	Severity    *Severity
	Status      *Status
}

type CreateTimelineEventCmd struct {
	OccurredAt time.Time
	EventType  string
	Message    string
}

// UpdateTimelineEventCmd is a partial update: nil fields are left unchanged.
type UpdateTimelineEventCmd struct {
	OccurredAt *time.Time
	EventType  *string
	Message    *string
}
