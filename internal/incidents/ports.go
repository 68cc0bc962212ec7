package incidents

import (
	"context"
	"time"
)

// ListFilter constrains an incident listing. Nil fields mean no constraint.
type ListFilter struct {
	Status   *Status
	Severity *Severity
}

// NewIncident holds the validated fields of an incident about to be stored.
type NewIncident struct {
	Title       string
	Description string
	Severity    Severity
	Status      Status
}

// IncidentChanges carries only the columns an update touches.
type IncidentChanges struct {
	Title       *string
	Description *string
	Severity    *Severity
	Status      *Status
}

// Empty reports whether no field is set.
func (c IncidentChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Severity == nil && c.Status == nil
}

// NewTimelineEvent holds the validated fields of an event about to be stored.
type NewTimelineEvent struct {
	OccurredAt time.Time
	EventType  string
	Message    string
}

// EventChanges carries only the columns an event update touches.
type EventChanges struct {
	OccurredAt *time.Time
	EventType  *string
	Message    *string
}

func (c EventChanges) Empty() bool {
	return c.OccurredAt == nil && c.EventType == nil && c.Message == nil
}

// IncidentRepository is the storage contract for incidents. Lookups that
// miss return (nil, nil); errors are reserved for storage failures.
type IncidentRepository interface {
	List(ctx context.Context, filter ListFilter) ([]Incident, error)
	Get(ctx context.Context, id uint) (*Incident, error)
	GetWithEvents(ctx context.Context, id uint) (*Incident, error)
	Create(ctx context.Context, fields NewIncident) (*Incident, error)
	Update(ctx context.Context, id uint, changes IncidentChanges) (*Incident, error)
	Delete(ctx context.Context, id uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

// EventRepository is the storage contract for timeline events, always
// addressed through their owning incident.
type EventRepository interface {
	ListIncidentEvents(ctx context.Context, incidentID uint) ([]TimelineEvent, error)
	Get(ctx context.Context, incidentID, eventID uint) (*TimelineEvent, error)
	Create(ctx context.Context, incidentID uint, fields NewTimelineEvent) (*TimelineEvent, error)
	Update(ctx context.Context, incidentID, eventID uint, changes EventChanges) (*TimelineEvent, error)
	Delete(ctx context.Context, incidentID, eventID uint) (bool, error)
}

// UnitOfWork is one transactional scope exposing both repositories.
type UnitOfWork interface {
	Incidents() IncidentRepository
	Events() EventRepository
	Commit(ctx context.Context) error
	Rollback() error
}

// Transactor runs fn inside a fresh unit of work, committing when fn
// returns nil and rolling back otherwise.
type Transactor interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}
