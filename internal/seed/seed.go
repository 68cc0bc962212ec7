// Package seed loads sample incidents through the use-case layer.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/logger"
)

// EventData represents one timeline entry in the seed file
type EventData struct {
	OccurredAt time.Time `json:"occurred_at"`
	EventType  string    `json:"event_type"`
	Message    string    `json:"message"`
}

// IncidentData represents one incident in the seed file
type IncidentData struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Severity    string      `json:"severity"`
	Status      string      `json:"status"`
	Events      []EventData `json:"events"`
}

// JSONData represents the structure of the JSON file
type JSONData struct {
	Incidents []IncidentData `json:"incidents"`
}

func LoadFile(path string) (*JSONData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var data JSONData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// Run creates every incident whose title is not stored yet, each with its
// events in a unit of work of its own. It returns how many were created.
func Run(ctx context.Context, tx incidents.Transactor, data *JSONData) (int, error) {
	existing := make(map[string]bool)
	err := tx.Do(ctx, func(uow incidents.UnitOfWork) error {
		list, err := incidents.NewUseCases(uow).ListIncidents(ctx, incidents.ListFilter{})
		if err != nil {
			return err
		}
		for _, incident := range list {
			existing[incident.Title] = true
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log := logger.WithContext(map[string]interface{}{"component": "seed"})
	created := 0
	for _, item := range data.Incidents {
		if existing[item.Title] {
			log.Info("Incident already exists, skipping", map[string]interface{}{"title": item.Title})
			continue
		}

		severity, err := incidents.ParseSeverity(item.Severity)
		if err != nil {
			return created, fmt.Errorf("incident %q: %w", item.Title, err)
		}
		status := incidents.StatusOpen
		if item.Status != "" {
			if status, err = incidents.ParseStatus(item.Status); err != nil {
				return created, fmt.Errorf("incident %q: %w", item.Title, err)
			}
		}

		err = tx.Do(ctx, func(uow incidents.UnitOfWork) error {
			uc := incidents.NewUseCases(uow)
			incident, err := uc.CreateIncident(ctx, incidents.CreateIncidentCmd{
				Title:       item.Title,
				Description: item.Description,
				Severity:    severity,
				Status:      status,
			})
			if err != nil {
				return err
			}
			for _, event := range item.Events {
				_, err := uc.CreateEvent(ctx, incident.ID, incidents.CreateTimelineEventCmd{
					OccurredAt: event.OccurredAt,
					EventType:  event.EventType,
					Message:    event.Message,
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return created, fmt.Errorf("incident %q: %w", item.Title, err)
		}

		existing[item.Title] = true
		created++
		log.Info("Created incident", map[string]interface{}{
			"title":  item.Title,
			"events": len(item.Events),
		})
	}
	return created, nil
}
