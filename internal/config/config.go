package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	AppEnv           string   `mapstructure:"APP_ENV" validate:"required,oneof=local development test production"`
	LogLevel         string   `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFile          string   `mapstructure:"LOG_FILE"`
	APITitle         string   `mapstructure:"API_TITLE"`
	APIVersion       string   `mapstructure:"API_VERSION" validate:"required"`
	APIPrefix        string   `mapstructure:"API_PREFIX" validate:"required,startswith=/"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL" validate:"required"`
	DBConnectRetries int      `mapstructure:"DB_CONNECT_RETRIES" validate:"min=1,max=50"`
	DBLogLevel       string   `mapstructure:"DB_LOG_LEVEL" validate:"oneof=silent error warn info"`
	CORSOrigins      []string `mapstructure:"-"`
	Port             string   `mapstructure:"PORT" validate:"required,numeric"`
	Debug            bool     `mapstructure:"DEBUG"`
}

var defaults = map[string]interface{}{
	"APP_ENV":            "local",
	"LOG_LEVEL":          "info",
	"LOG_FILE":           "",
	"API_TITLE":          "Incident Co-Pilot API",
	"API_VERSION":        "0.1.0",
	"API_PREFIX":         "/api/v1",
	"DATABASE_URL":       "",
	"DB_CONNECT_RETRIES": 5,
	"DB_LOG_LEVEL":       "error",
	"CORS_ORIGINS":       "",
	"PORT":               "8080",
	"DEBUG":              false,
}

// Load reads .env (when present) and the environment, then validates the result.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env error: %w", err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config error: %w", err)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.DBLogLevel = strings.ToLower(c.DBLogLevel)
	c.CORSOrigins = splitOrigins(v.GetString("CORS_ORIGINS"))

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("validate config error: %w", err)
	}
	return &c, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
