package db

import (
	"fmt"
	"time"

	"github.com/Songmu/retry"
	"github.com/incident-copilot/backend/internal/logger"
	"github.com/incident-copilot/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ParseLogLevel maps DB_LOG_LEVEL onto GORM's logger levels.
func ParseLogLevel(raw string) gormlogger.LogLevel {
	switch raw {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

// Connect opens the postgres connection, retrying while the server comes up.
func Connect(dsn string, attempts int, logLevel string) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}

	var conn *gorm.DB
	err := retry.Retry(uint(attempts), 2*time.Second, func() error {
		var err error
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:               gormlogger.Default.LogMode(ParseLogLevel(logLevel)),
			TranslateError:       true,
			DisableAutomaticPing: true,
		})
		if err == nil {
			err = pingOrClose(conn)
		}
		if err != nil {
			logger.Warn("Database connection attempt failed", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully", nil)
	return conn, nil
}

// pingOrClose checks the pool and closes it when the server is unreachable,
// so a failed attempt does not leave an open pool behind.
func pingOrClose(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return err
	}
	return nil
}

// AutoMigrate creates or updates the incident schema.
func AutoMigrate(conn *gorm.DB) error {
	for _, model := range models.All() {
		if err := conn.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	logger.Info("Database migrations completed successfully", nil)
	return nil
}
