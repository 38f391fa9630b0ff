package logicalview

import (
	"io"
	"log/slog"
	"strings"
)

// Logger defines the interface for application logging.
//
// All framework operations (module initialization, service registration,
// composition and rendering) log through this interface using key-value
// pairs:
//
//	logger.Info("Module initialized", "module", "webapp")
//
// *slog.Logger satisfies Logger, which is what the application uses by
// default.
type Logger interface {
	// Info logs an informational message with optional key-value pairs.
	Info(msg string, args ...any)

	// Error logs an error message with optional key-value pairs.
	Error(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, args ...any)

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, args ...any)
}

// LogConfig selects the slog handler used by NewSlogLogger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level" default:"info" desc:"Minimum log level (debug, info, warn, error)" env:"LEVEL"`

	// Format is either text or json.
	Format string `yaml:"format" toml:"format" default:"text" desc:"Log output format (text, json)" env:"FORMAT"`
}

// NewSlogLogger builds a *slog.Logger writing to w according to cfg.
// Unknown levels fall back to info and unknown formats to text.
func NewSlogLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
