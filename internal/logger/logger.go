package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger // Main logger instance

// Options controls where and how much the application logs.
type Options struct {
	Level string // debug, info, warn or error
	File  string // empty means stdout
}

// ParseLevel maps a LOG_LEVEL value onto a logrus level, defaulting to info.
func ParseLevel(raw string) logrus.Level {
	switch strings.ToUpper(raw) {
	case "DEBUG":
		return logrus.DebugLevel
	case "INFO":
		return logrus.InfoLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Initialize sets up the logger with proper configuration
func Initialize(opts Options) error {
	l := logrus.New()
	level := ParseLevel(opts.Level)
	l.SetLevel(level)

	var out io.Writer = os.Stdout
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		l.SetReportCaller(true)
	}

	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   opts.File != "",
	})

	Logger = l

	Logger.WithFields(logrus.Fields{
		"log_level": level.String(),
		"log_file":  opts.File,
	}).Info("Logging system initialized")
	return nil
}

// GetLogger returns the configured main logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		l := logrus.New()
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
		Logger = l
	}
	return Logger
}

// Entry wraps a logrus entry so call sites can attach per-message fields
// the same way the package-level helpers do.
type Entry struct {
	*logrus.Entry
}

func (e Entry) Debug(msg string, fields map[string]interface{}) {
	e.WithFields(fields).Debug(msg)
}

func (e Entry) Info(msg string, fields map[string]interface{}) {
	e.WithFields(fields).Info(msg)
}

func (e Entry) Warn(msg string, fields map[string]interface{}) {
	e.WithFields(fields).Warn(msg)
}

func (e Entry) Error(msg string, fields map[string]interface{}) {
	e.WithFields(fields).Error(msg)
}

// WithContext creates a logger with additional context fields
func WithContext(fields map[string]interface{}) Entry {
	return Entry{GetLogger().WithFields(fields)}
}

// WithIncident creates a logger with incident context
func WithIncident(incidentID uint) Entry {
	return Entry{GetLogger().WithFields(logrus.Fields{
		"incident_id": incidentID,
		"component":   "incidents",
	})}
}

// WithEvent creates a logger with timeline event context
func WithEvent(incidentID, eventID uint) Entry {
	return Entry{GetLogger().WithFields(logrus.Fields{
		"incident_id": incidentID,
		"event_id":    eventID,
		"component":   "incidents",
	})}
}

// WithRequest creates a logger with request context
func WithRequest(requestID, method, path string) Entry {
	return Entry{GetLogger().WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"component":  "controller",
	})}
}

// WithError creates a logger with error context
func WithError(err error, component string) Entry {
	fields := logrus.Fields{
		"error":     err.Error(),
		"component": component,
	}

	// Add stack trace for debug level
	if GetLogger().GetLevel() >= logrus.DebugLevel {
		fields["stack_trace"] = getStackTrace()
	}

	return Entry{GetLogger().WithFields(fields)}
}

// getStackTrace returns a formatted stack trace
func getStackTrace() string {
	var stack []string
	for i := 2; i < 10; i++ {
		if pc, file, line, ok := runtime.Caller(i); ok {
			fn := runtime.FuncForPC(pc)
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}
	return strings.Join(stack, "\n")
}

// Log levels convenience functions (with fields)
func Debug(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Fatal(msg)
}
