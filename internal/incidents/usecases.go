package incidents

import (
	"context"
	"fmt"
	"strings"

	"github.com/incident-copilot/backend/internal/logger"
)

// UseCases orchestrates the incident lifecycle on top of a single unit of
// work. A UseCases value is bound to one scope and must not outlive it.
type UseCases struct {
	uow UnitOfWork
}

func NewUseCases(uow UnitOfWork) *UseCases {
	return &UseCases{uow: uow}
}

// ListIncidents returns incidents matching filter, most recent first.
func (uc *UseCases) ListIncidents(ctx context.Context, filter ListFilter) ([]Incident, error) {
	incidents, err := uc.uow.Incidents().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return incidents, nil
}

// GetIncident loads one incident, with its timeline only when withEvents is set.
func (uc *UseCases) GetIncident(ctx context.Context, id uint, withEvents bool) (*Incident, error) {
	var (
		incident *Incident
		err      error
	)
	if withEvents {
		incident, err = uc.uow.Incidents().GetWithEvents(ctx, id)
	} else {
		incident, err = uc.uow.Incidents().Get(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}
	if incident == nil {
		return nil, ErrIncidentNotFound
	}
	return incident, nil
}

func (uc *UseCases) CreateIncident(ctx context.Context, cmd CreateIncidentCmd) (*Incident, error) {
	title := strings.TrimSpace(cmd.Title)
	description := strings.TrimSpace(cmd.Description)

	if title == "" {
		return nil, newValidationError("title cannot be empty")
	}
	if description == "" {
		return nil, newValidationError("description cannot be empty")
	}

	status := cmd.Status
	if status == "" {
		status = StatusOpen
	}
	if !status.Valid() {
		return nil, newValidationError(fmt.Sprintf("invalid status: %s", status))
	}
	if !cmd.Severity.Valid() {
		return nil, newValidationError(fmt.Sprintf("invalid severity: %s", cmd.Severity))
	}

	incident, err := uc.uow.Incidents().Create(ctx, NewIncident{
		Title:       title,
		Description: description,
		Severity:    cmd.Severity,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	logger.WithIncident(incident.ID).Info("Incident created", map[string]interface{}{
		"severity": incident.Severity,
		"status":   incident.Status,
	})
	return incident, nil
}

// UpdateIncident applies the fields present in cmd. Every field is checked
// before anything is written; the status is checked against the stored
// status, not the caller's view of it.
func (uc *UseCases) UpdateIncident(ctx context.Context, id uint, cmd UpdateIncidentCmd) (*Incident, error) {
	existing, err := uc.uow.Incidents().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}
	if existing == nil {
		return nil, ErrIncidentNotFound
	}

	var changes IncidentChanges

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, newValidationError("title cannot be empty")
		}
		changes.Title = &title
	}

	if cmd.Description != nil {
		description := strings.TrimSpace(*cmd.Description)
		if description == "" {
			return nil, newValidationError("description cannot be empty")
		}
		changes.Description = &description
	}

	if cmd.Status != nil {
		if err := ValidateTransition(existing.Status, *cmd.Status); err != nil {
			logger.WithIncident(id).Warn("Rejected status transition", map[string]interface{}{
				"from": existing.Status,
				"to":   *cmd.Status,
			})
			return nil, err
		}
		status := *cmd.Status
		changes.Status = &status
	}

	if cmd.Severity != nil {
		if !cmd.Severity.Valid() {
			return nil, newValidationError(fmt.Sprintf("invalid severity: %s", *cmd.Severity))
		}
		severity := *cmd.Severity
		changes.Severity = &severity
	}

	if changes.Empty() {
		logger.Debug("Incident update carries no changes", map[string]interface{}{"incident_id": id})
	}

	updated, err := uc.uow.Incidents().Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}
	if updated == nil {
		return nil, ErrIncidentNotFound
	}
	return updated, nil
}

// DeleteIncident removes the incident together with its timeline.
func (uc *UseCases) DeleteIncident(ctx context.Context, id uint) error {
	deleted, err := uc.uow.Incidents().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	if !deleted {
		return ErrIncidentNotFound
	}
	logger.WithIncident(id).Info("Incident deleted", nil)
	return nil
}

// ListEvents returns the timeline of an existing incident.
func (uc *UseCases) ListEvents(ctx context.Context, incidentID uint) ([]TimelineEvent, error) {
	exists, err := uc.uow.Incidents().Exists(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check incident: %w", err)
	}
	if !exists {
		return nil, ErrIncidentNotFound
	}

	events, err := uc.uow.Events().ListIncidentEvents(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (uc *UseCases) GetEvent(ctx context.Context, incidentID, eventID uint) (*TimelineEvent, error) {
	event, err := uc.uow.Events().Get(ctx, incidentID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event != nil {
		return event, nil
	}
	return nil, uc.eventMiss(ctx, incidentID)
}

func (uc *UseCases) CreateEvent(ctx context.Context, incidentID uint, cmd CreateTimelineEventCmd) (*TimelineEvent, error) {
	exists, err := uc.uow.Incidents().Exists(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check incident: %w", err)
	}
	if !exists {
		return nil, ErrIncidentNotFound
	}

	eventType := strings.TrimSpace(cmd.EventType)
	message := strings.TrimSpace(cmd.Message)
	if eventType == "" {
		return nil, newValidationError("event_type cannot be empty")
	}
	if message == "" {
		return nil, newValidationError("message cannot be empty")
	}

	event, err := uc.uow.Events().Create(ctx, incidentID, NewTimelineEvent{
		OccurredAt: cmd.OccurredAt,
		EventType:  eventType,
		Message:    message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.WithEvent(incidentID, event.ID).Info("Timeline event created", map[string]interface{}{
		"event_type": event.EventType,
	})
	return event, nil
}

func (uc *UseCases) UpdateEvent(ctx context.Context, incidentID, eventID uint, cmd UpdateTimelineEventCmd) (*TimelineEvent, error) {
	var changes EventChanges

	if cmd.OccurredAt != nil {
		occurredAt := *cmd.OccurredAt
		changes.OccurredAt = &occurredAt
	}
	if cmd.EventType != nil {
		eventType := strings.TrimSpace(*cmd.EventType)
		if eventType == "" {
			return nil, newValidationError("event_type cannot be empty")
		}
		changes.EventType = &eventType
	}
	if cmd.Message != nil {
		message := strings.TrimSpace(*cmd.Message)
		if message == "" {
			return nil, newValidationError("message cannot be empty")
		}
		changes.Message = &message
	}

	updated, err := uc.uow.Events().Update(ctx, incidentID, eventID, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if updated != nil {
		return updated, nil
	}
	return nil, uc.eventMiss(ctx, incidentID)
}

func (uc *UseCases) DeleteEvent(ctx context.Context, incidentID, eventID uint) error {
	deleted, err := uc.uow.Events().Delete(ctx, incidentID, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if deleted {
		return nil
	}
	return uc.eventMiss(ctx, incidentID)
}

// eventMiss picks the NotFound variant after an event lookup came back
// empty. Only called on the miss path.
func (uc *UseCases) eventMiss(ctx context.Context, incidentID uint) error {
	exists, err := uc.uow.Incidents().Exists(ctx, incidentID)
	if err != nil {
		return fmt.Errorf("failed to check incident: %w", err)
	}
	if !exists {
		return ErrIncidentNotFound
	}
	return ErrEventNotFound
}
