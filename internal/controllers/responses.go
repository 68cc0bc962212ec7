package controllers

import (
	"time"

	"github.com/incident-copilot/backend/internal/incidents"
)

type EventResponse struct {
	ID         uint      `json:"id"`
	IncidentID uint      `json:"incident_id"`
	OccurredAt time.Time `json:"occurred_at"`
	EventType  string    `json:"event_type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IncidentListItem is the summary shape used by the list endpoint.
type IncidentListItem struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      incidents.Status   `json:"status"`
	Severity    incidents.Severity `json:"severity"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type IncidentResponse struct {
	IncidentListItem
	Events []EventResponse `json:"events"`
}

func newEventResponse(e *incidents.TimelineEvent) EventResponse {
	return EventResponse{
		ID:         e.ID,
		IncidentID: e.IncidentID,
		OccurredAt: e.OccurredAt,
		EventType:  e.EventType,
		Message:    e.Message,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func newEventResponses(events []incidents.TimelineEvent) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, newEventResponse(&events[i]))
	}
	return out
}

func newIncidentListItem(i *incidents.Incident) IncidentListItem {
	return IncidentListItem{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		Severity:    i.Severity,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func newIncidentResponse(i *incidents.Incident) IncidentResponse {
	return IncidentResponse{
		IncidentListItem: newIncidentListItem(i),
		Events:           newEventResponses(i.Events),
	}
}
