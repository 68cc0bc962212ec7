package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incident-copilot/backend/internal/incidents"
)

type EventController struct {
	tx incidents.Transactor
}

func NewEventController(tx incidents.Transactor) *EventController {
	return &EventController{tx: tx}
}

func parseEventPath(c *gin.Context) (uint, uint, error) {
	incidentID, err := parseID(c, "incident_id")
	if err != nil {
		return 0, 0, err
	}
	eventID, err := parseID(c, "event_id")
	if err != nil {
		return 0, 0, err
	}
	return incidentID, eventID, nil
}

// ListEvents returns the incident's timeline in chronological order.
func (ec *EventController) ListEvents(c *gin.Context) {
	incidentID, err := parseID(c, "incident_id")
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var events []incidents.TimelineEvent
	err = ec.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		events, err = incidents.NewUseCases(uow).ListEvents(c.Request.Context(), incidentID)
		return err
	})
	if err != nil {
		respondError(c, err, "list events")
		return
	}

	c.JSON(http.StatusOK, newEventResponses(events))
}

func (ec *EventController) GetEvent(c *gin.Context) {
	incidentID, eventID, err := parseEventPath(c)
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var event *incidents.TimelineEvent
	err = ec.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		event, err = incidents.NewUseCases(uow).GetEvent(c.Request.Context(), incidentID, eventID)
		return err
	})
	if err != nil {
		respondError(c, err, "get event")
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	incidentID, err := parseID(c, "incident_id")
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var req CreateEventRequest
	if err := bindStrictJSON(c, &req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var event *incidents.TimelineEvent
	err = ec.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		event, err = incidents.NewUseCases(uow).CreateEvent(c.Request.Context(), incidentID, req.command())
		return err
	})
	if err != nil {
		respondError(c, err, "create event")
		return
	}

	requestLog(c).Info("Timeline event created successfully", map[string]interface{}{
		"incident_id": incidentID,
		"event_id":    event.ID,
	})
	c.JSON(http.StatusCreated, newEventResponse(event))
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	incidentID, eventID, err := parseEventPath(c)
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var req UpdateEventRequest
	if err := bindStrictJSON(c, &req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var event *incidents.TimelineEvent
	err = ec.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		event, err = incidents.NewUseCases(uow).UpdateEvent(c.Request.Context(), incidentID, eventID, req.command())
		return err
	})
	if err != nil {
		respondError(c, err, "update event")
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	incidentID, eventID, err := parseEventPath(c)
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	err = ec.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		return incidents.NewUseCases(uow).DeleteEvent(c.Request.Context(), incidentID, eventID)
	})
	if err != nil {
		respondError(c, err, "delete event")
		return
	}

	c.Status(http.StatusNoContent)
}
