package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
}

// FileConfig controls the rotated log file.
type FileConfig struct {
	Enabled       bool
	Dir           string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	Compress      bool
	WriteToStderr bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// ParseLevel converts a level name, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a new zerolog logger writing to stderr
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a logger writing to w in the configured format.
func NewWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	output := w
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: cfg.TimeFormat,
			NoColor:    w != os.Stderr,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromConfigValues creates a stderr logger from plain config strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	if format == "json" || format == "console" {
		cfg.Format = format
	}
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// BUILDSEL_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// BUILDSEL_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv("BUILDSEL_LOG_LEVEL"), os.Getenv("BUILDSEL_LOG_FORMAT"))
}

// NewWithFile creates a logger that writes to a rotated file and, optionally, stderr.
// With the file disabled and stderr off, logs are discarded; the console UI owns the terminal.
// The returned cleanup closes the file.
func NewWithFile(cfg Config, fileCfg FileConfig) (zerolog.Logger, func(), error) {
	var writers []io.Writer
	cleanup := func() {}

	if fileCfg.WriteToStderr {
		var stderr io.Writer = os.Stderr
		if cfg.Format != "json" {
			stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: cfg.TimeFormat}
		}
		writers = append(writers, stderr)
	}

	if fileCfg.Enabled {
		if err := os.MkdirAll(fileCfg.Dir, 0o755); err != nil {
			return New(cfg), cleanup, fmt.Errorf("create log dir: %w", err)
		}
		rotator, err := NewLogRotator(RotatorConfig{
			Dir:        fileCfg.Dir,
			MaxSizeMB:  fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAgeDays: fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
		})
		if err != nil {
			return New(cfg), cleanup, err
		}
		writers = append(writers, rotator)
		cleanup = func() {
			if err := rotator.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
			}
		}
	}

	if len(writers) == 0 {
		return zerolog.Nop(), cleanup, nil
	}

	// The file always gets JSON lines; console formatting is only for a terminal.
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, cleanup, nil
}
