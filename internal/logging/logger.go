// Package logging provides zerolog setup and context plumbing.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stderr

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromConfigValues creates a logger from string level/format values, as
// stored in the config file.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		cfg.Level = parsed
	}
	switch format {
	case "json":
		cfg.Format = "json"
	case "text", "console":
		cfg.Format = "console"
	}
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables.
// DOCKWORK_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// DOCKWORK_LOG_FORMAT: json, text (default: text console output)
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv("DOCKWORK_LOG_LEVEL"), os.Getenv("DOCKWORK_LOG_FORMAT"))
}
