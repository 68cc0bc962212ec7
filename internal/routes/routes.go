package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/incident-copilot/backend/internal/config"
	"github.com/incident-copilot/backend/internal/controllers"
	"github.com/incident-copilot/backend/internal/middleware"
	"github.com/incident-copilot/backend/internal/persistence"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// NewRouter builds the engine with the standard middleware chain.
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CustomLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	}
	r.Use(gin.Recovery())

	return r
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, conn *gorm.DB, cfg *config.Config) {
	tx := persistence.NewTransactor(conn)

	healthController := controllers.NewHealthController(conn, cfg.APIVersion)
	incidentController := controllers.NewIncidentController(tx)
	eventController := controllers.NewEventController(tx)

	r.GET("/health", healthController.Health)
	r.GET("/health/ready", healthController.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		incidents := api.Group("/incidents")
		{
			incidents.GET("", incidentController.ListIncidents)
			incidents.POST("", incidentController.CreateIncident)
			incidents.GET("/:incident_id", incidentController.GetIncident)
			incidents.PATCH("/:incident_id", incidentController.UpdateIncident)
			incidents.DELETE("/:incident_id", incidentController.DeleteIncident)

			events := incidents.Group("/:incident_id/events")
			{
				events.GET("", eventController.ListEvents)
				events.POST("", eventController.CreateEvent)
				events.GET("/:event_id", eventController.GetEvent)
				events.PATCH("/:event_id", eventController.UpdateEvent)
				events.DELETE("/:event_id", eventController.DeleteEvent)
			}
		}
	}
}
