package main

import (
	"context"
	"os"

	"github.com/incident-copilot/backend/internal/config"
	"github.com/incident-copilot/backend/internal/db"
	"github.com/incident-copilot/backend/internal/logger"
	"github.com/incident-copilot/backend/internal/persistence"
	"github.com/incident-copilot/backend/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	if err := logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		logger.Error("Failed to initialize logger", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	conn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectRetries, cfg.DBLogLevel)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}

	// Run migrations first
	if err := db.AutoMigrate(conn); err != nil {
		logger.Fatal("Failed to migrate database", map[string]interface{}{"error": err.Error()})
	}

	path := "data/initial-incidents.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := seed.LoadFile(path)
	if err != nil {
		logger.Fatal("Failed to load seed data", map[string]interface{}{"error": err.Error()})
	}

	created, err := seed.Run(context.Background(), persistence.NewTransactor(conn), data)
	if err != nil {
		logger.Fatal("Failed to seed database", map[string]interface{}{
			"error":   err.Error(),
			"created": created,
		})
	}

	logger.Info("Database seeding completed successfully", map[string]interface{}{"created": created})
}
