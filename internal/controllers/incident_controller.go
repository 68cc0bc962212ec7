package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/incident-copilot/backend/internal/incidents"
	"github.com/incident-copilot/backend/internal/logger"
	"github.com/incident-copilot/backend/internal/metrics"
	"github.com/incident-copilot/backend/internal/middleware"
)

type IncidentController struct {
	tx incidents.Transactor
}

func NewIncidentController(tx incidents.Transactor) *IncidentController {
	return &IncidentController{tx: tx}
}

func requestLog(c *gin.Context) logger.Entry {
	return logger.WithRequest(middleware.RequestID(c), c.Request.Method, c.FullPath())
}

// respondError maps core errors onto HTTP responses; anything unclassified
// is a storage failure and is not echoed to the client.
func respondError(c *gin.Context, err error, action string) {
	var notFound *incidents.NotFoundError
	var invalid *incidents.ValidationError

	switch {
	case errors.As(err, &notFound):
		metrics.DomainErrors.WithLabelValues("not_found").Inc()
		requestLog(c).Info(action+" target not found", map[string]interface{}{"detail": notFound.Message})
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound.Message})
	case errors.As(err, &invalid):
		metrics.DomainErrors.WithLabelValues("validation").Inc()
		requestLog(c).Warn(action+" rejected", map[string]interface{}{"detail": invalid.Message})
		c.JSON(http.StatusBadRequest, gin.H{"detail": invalid.Message})
	default:
		logger.WithError(err, "incident_controller").Error("Failed to "+action, map[string]interface{}{
			"request_id": middleware.RequestID(c),
			"path":       c.FullPath(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func respondInvalidRequest(c *gin.Context, err error) {
	requestLog(c).Debug("Invalid request data", map[string]interface{}{"error": err.Error()})
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": "Invalid request data",
		"errors": err.Error(),
	})
}

// ListIncidents returns incidents, newest first, optionally filtered by
// status and severity.
func (ic *IncidentController) ListIncidents(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var result []incidents.Incident
	err = ic.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		result, err = incidents.NewUseCases(uow).ListIncidents(c.Request.Context(), filter)
		return err
	})
	if err != nil {
		respondError(c, err, "list incidents")
		return
	}

	items := make([]IncidentListItem, 0, len(result))
	for i := range result {
		items = append(items, newIncidentListItem(&result[i]))
	}
	c.JSON(http.StatusOK, items)
}

// GetIncident returns the incident detail; the timeline is included unless
// include_events=false.
func (ic *IncidentController) GetIncident(c *gin.Context) {
	id, err := parseID(c, "incident_id")
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	withEvents := true
	if raw := c.Query("include_events"); raw != "" {
		withEvents, err = strconv.ParseBool(raw)
		if err != nil {
			respondInvalidRequest(c, err)
			return
		}
	}

	var incident *incidents.Incident
	err = ic.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		incident, err = incidents.NewUseCases(uow).GetIncident(c.Request.Context(), id, withEvents)
		return err
	})
	if err != nil {
		respondError(c, err, "get incident")
		return
	}

	c.JSON(http.StatusOK, newIncidentResponse(incident))
}

func (ic *IncidentController) CreateIncident(c *gin.Context) {
	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var incident *incidents.Incident
	err := ic.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		incident, err = incidents.NewUseCases(uow).CreateIncident(c.Request.Context(), req.command())
		return err
	})
	if err != nil {
		respondError(c, err, "create incident")
		return
	}

	requestLog(c).Info("Incident created successfully", map[string]interface{}{"incident_id": incident.ID})
	c.JSON(http.StatusCreated, newIncidentResponse(incident))
}

func (ic *IncidentController) UpdateIncident(c *gin.Context) {
	id, err := parseID(c, "incident_id")
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	var incident *incidents.Incident
	err = ic.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		var err error
		incident, err = incidents.NewUseCases(uow).UpdateIncident(c.Request.Context(), id, req.command())
		return err
	})
	if err != nil {
		respondError(c, err, "update incident")
		return
	}

	if req.Status != nil {
		metrics.StatusChanges.WithLabelValues(*req.Status).Inc()
	}
	requestLog(c).Info("Incident updated successfully", map[string]interface{}{"incident_id": id})
	c.JSON(http.StatusOK, newIncidentResponse(incident))
}

func (ic *IncidentController) DeleteIncident(c *gin.Context) {
	id, err := parseID(c, "incident_id")
	if err != nil {
		respondInvalidRequest(c, err)
		return
	}

	err = ic.tx.Do(c.Request.Context(), func(uow incidents.UnitOfWork) error {
		return incidents.NewUseCases(uow).DeleteIncident(c.Request.Context(), id)
	})
	if err != nil {
		respondError(c, err, "delete incident")
		return
	}

	requestLog(c).Info("Incident deleted successfully", map[string]interface{}{"incident_id": id})
	c.Status(http.StatusNoContent)
}
