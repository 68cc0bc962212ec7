package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/incident-copilot/backend/internal/config"
	"github.com/incident-copilot/backend/internal/db"
	"github.com/incident-copilot/backend/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the incident database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the incidents and timeline_events tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connect()
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(conn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Database migrations completed successfully!")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the schema readiness probe",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := connect()
		if err != nil {
			return err
		}

		result := db.CheckReadiness(context.Background(), conn)
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if result.Status != db.StatusHealthy {
			return fmt.Errorf("database is %s", result.Status)
		}
		return nil
	},
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return nil, err
	}
	return db.Connect(cfg.DatabaseURL, cfg.DBConnectRetries, cfg.DBLogLevel)
}

func main() {
	rootCmd.AddCommand(upCmd, statusCmd)
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
