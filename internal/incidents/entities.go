package incidents

import "time"

// TimelineEvent is a single dated note in an incident's history.
type TimelineEvent struct {
	ID         uint
	IncidentID uint
	OccurredAt time.Time
	EventType  string
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Incident is a tracked operational problem. Events is only populated
// when the incident was loaded together with its timeline.
type Incident struct {
	ID          uint
	Title       string
	Description string
	Severity    Severity
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Events      []TimelineEvent
}
