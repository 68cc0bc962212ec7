package models

import "time"

type TimelineEvent struct {
	ID         uint      `gorm:"primaryKey"`
	IncidentID uint      `gorm:"not null;index:ix_timeline_incident_occurred,priority:1"`
	OccurredAt time.Time `gorm:"not null;index:ix_timeline_incident_occurred,priority:2"`
	EventType  string    `gorm:"type:varchar(50);not null;check:event_type_not_empty,length(trim(event_type)) > 0"`
	Message    string    `gorm:"type:varchar(5000);not null;check:message_not_empty,length(trim(message)) > 0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TimelineEvent) TableName() string {
	return "timeline_events"
}

// All returns every model the schema is built from, parents first.
func All() []interface{} {
	return []interface{}{
		&Incident{},
		&TimelineEvent{},
	}
}
