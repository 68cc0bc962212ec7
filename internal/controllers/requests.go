package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/incident-copilot/backend/internal/incidents"
)

type CreateIncidentRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required,max=2000"`
	Status      string `json:"status" binding:"omitempty,oneof=open investigating mitigated resolved"`
	Severity    string `json:"severity" binding:"omitempty,oneof=sev1 sev2 sev3 sev4"`
}

func (r CreateIncidentRequest) command() incidents.CreateIncidentCmd {
	cmd := incidents.CreateIncidentCmd{
		Title:       r.Title,
		Description: r.Description,
		Severity:    incidents.SeveritySev1,
		Status:      incidents.StatusOpen,
	}
	if r.Severity != "" {
		cmd.Severity = incidents.Severity(r.Severity)
	}
	if r.Status != "" {
		cmd.Status = incidents.Status(r.Status)
	}
	return cmd
}

type UpdateIncidentRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" binding:"omitempty,oneof=open investigating mitigated resolved"`
	Severity    *string `json:"severity" binding:"omitempty,oneof=sev1 sev2 sev3 sev4"`
}

func (r UpdateIncidentRequest) command() incidents.UpdateIncidentCmd {
	cmd := incidents.UpdateIncidentCmd{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := incidents.Status(*r.Status)
		cmd.Status = &status
	}
	if r.Severity != nil {
		severity := incidents.Severity(*r.Severity)
		cmd.Severity = &severity
	}
	return cmd
}

type CreateEventRequest struct {
	OccurredAt *time.Time `json:"occurred_at" binding:"required"`
	EventType  string     `json:"event_type" binding:"required,max=50"`
	Message    string     `json:"message" binding:"required,min=3,max=5000"`
}

func (r CreateEventRequest) command() incidents.CreateTimelineEventCmd {
	return incidents.CreateTimelineEventCmd{
		OccurredAt: *r.OccurredAt,
		EventType:  r.EventType,
		Message:    r.Message,
	}
}

type UpdateEventRequest struct {
	OccurredAt *time.Time `json:"occurred_at"`
	EventType  *string    `json:"event_type" binding:"omitempty,max=50"`
	Message    *string    `json:"message" binding:"omitempty,min=3,max=5000"`
}

func (r UpdateEventRequest) command() incidents.UpdateTimelineEventCmd {
	return incidents.UpdateTimelineEventCmd{
		OccurredAt: r.OccurredAt,
		EventType:  r.EventType,
		Message:    r.Message,
	}
}

// bindStrictJSON decodes the body rejecting unknown fields, then runs the
// binding validator.
func bindStrictJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil {
		return fmt.Errorf("empty request body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

func parseListFilter(c *gin.Context) (incidents.ListFilter, error) {
	var filter incidents.ListFilter
	if raw := c.Query("status"); raw != "" {
		status, err := incidents.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := c.Query("severity"); raw != "" {
		severity, err := incidents.ParseSeverity(raw)
		if err != nil {
			return filter, err
		}
		filter.Severity = &severity
	}
	return filter, nil
}
