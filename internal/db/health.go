package db

import (
	"context"

	"gorm.io/gorm"
)

// RequiredTables must all exist for the service to be ready.
var RequiredTables = []string{"incidents", "timeline_events"}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Readiness is the result of a connectivity and schema probe.
type Readiness struct {
	Status       string   `json:"status"`
	Connectivity bool     `json:"connectivity"`
	TablesFound  []string `json:"tables_found"`
	Error        string   `json:"error,omitempty"`
}

// CheckReadiness pings the store and checks that the schema is in place.
// Failures are reported in the result, never returned.
func CheckReadiness(ctx context.Context, conn *gorm.DB) Readiness {
	result := Readiness{Status: StatusUnhealthy, TablesFound: []string{}}

	if conn == nil {
		result.Error = "database connection not initialized"
		return result
	}

	sqlDB, err := conn.DB()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Connectivity = true

	tables, err := conn.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.TablesFound = tables

	found := make(map[string]bool, len(tables))
	for _, t := range tables {
		found[t] = true
	}
	for _, required := range RequiredTables {
		if !found[required] {
			return result
		}
	}
	result.Status = StatusHealthy
	return result
}
