package persistence

import (
	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/models"
)

func toDomainEvent(m *models.TimelineEvent) *incidents.TimelineEvent {
	return &incidents.TimelineEvent{
		ID:         m.ID,
		IncidentID: m.IncidentID,
		OccurredAt: m.OccurredAt,
		EventType:  m.EventType,
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toDomainEvents(ms []models.TimelineEvent) []incidents.TimelineEvent {
	events := make([]incidents.TimelineEvent, 0, len(ms))
	for i := range ms {
		events = append(events, *toDomainEvent(&ms[i]))
	}
	return events
}

// toDomainIncident maps a record; events are copied only when the caller
// preloaded them.
func toDomainIncident(m *models.Incident, withEvents bool) *incidents.Incident {
	incident := &incidents.Incident{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Severity:    m.Severity,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Events:      []incidents.TimelineEvent{},
	}
	if withEvents {
		incident.Events = toDomainEvents(m.Events)
	}
	return incident
}

// incidentColumns converts the present fields into a column map for Updates.
func incidentColumns(c incidents.IncidentChanges) map[string]interface{} {
	columns := make(map[string]interface{})
	if c.Title != nil {
		columns["title"] = *c.Title
	}
	if c.Description != nil {
		columns["description"] = *c.Description
	}
	if c.Severity != nil {
		columns["severity"] = string(*c.Severity)
	}
	if c.Status != nil {
		columns["status"] = string(*c.Status)
	}
	return columns
}

func eventColumns(c incidents.EventChanges) map[string]interface{} {
	columns := make(map[string]interface{})
	if c.OccurredAt != nil {
		columns["occurred_at"] = c.OccurredAt.UTC()
	}
	if c.EventType != nil {
		columns["event_type"] = *c.EventType
	}
	if c.Message != nil {
		columns["message"] = *c.Message
	}
	return columns
}
