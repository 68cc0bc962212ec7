package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/incident-copilot/backend/internal/config"
	"github.com/incident-copilot/backend/internal/db"
	"github.com/incident-copilot/backend/internal/logger"
	"github.com/incident-copilot/backend/internal/routes"
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
	if err := db.AutoMigrate(conn); err != nil {
		logger.Fatal("Failed to migrate database", map[string]interface{}{"error": err.Error()})
	}

	// Setup graceful shutdown
	stopChan := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		logger.Warn("Received shutdown signal", nil)
		close(stopChan)
	}()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := routes.NewRouter(cfg)
	routes.SetupRoutes(r, conn, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	logger.Info("Starting "+cfg.APITitle, map[string]interface{}{
		"port":     cfg.Port,
		"version":  cfg.APIVersion,
		"app_env":  cfg.AppEnv,
		"gin_mode": gin.Mode(),
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	<-stopChan
	logger.Info("Shutting down server gracefully...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
}
