package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incident-copilot/backend/internal/db"
	"gorm.io/gorm"
)

type HealthController struct {
	db      *gorm.DB
	version string
}

func NewHealthController(conn *gorm.DB, version string) *HealthController {
	return &HealthController{db: conn, version: version}
}

// Health reports that the process is up.
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": hc.version,
	})
}

// Ready reports whether the database is reachable and migrated.
func (hc *HealthController) Ready(c *gin.Context) {
	result := db.CheckReadiness(c.Request.Context(), hc.db)

	statusCode := http.StatusOK
	if result.Status != db.StatusHealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, result)
}
