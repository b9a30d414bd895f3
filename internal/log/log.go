// Package log provides JSON-lines structured logging for lk.
//
// The picker owns the terminal while it runs, so logs normally go to a
// file rather than stderr.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger:
//
//	{"ts":"2024-01-15T10:30:00Z","level":"INFO","msg":"run finished","script":"./scripts/db.sh","exit_code":0}
//
// Log levels:
//   - debug: Verbose (enabled via LK_DEBUG=1)
//   - info: Startup, runs
//   - warn: Non-fatal issues (unreadable scripts, history append failures)
//   - error: Failures surfaced to the user
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// NewFromEnv creates a logger configured from environment variables.
// LK_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	if os.Getenv("LK_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a config level name to a slog level. Unknown names
// map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// OpenFile opens path for appending, creating it and its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// StartupInfo holds information logged when lk starts.
type StartupInfo struct {
	Version    string
	ConfigPath string
	Workdir    string
	Mode       string
	PID        int
}

// LogStartup logs startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("lk started",
		"version", info.Version,
		"config_path", info.ConfigPath,
		"workdir", info.Workdir,
		"mode", info.Mode,
		"pid", info.PID,
	)
}

// LogDiscovery logs the outcome of a script search.
func LogDiscovery(logger *slog.Logger, executables, functions int, durationMs int64) {
	logger.Debug("discovery finished",
		"executables", executables,
		"functions", functions,
		"duration_ms", durationMs,
	)
}

// LogRun logs a finished function run.
func LogRun(logger *slog.Logger, script, function string, exitCode int, durationMs int64) {
	logger.Info("run finished",
		"script", script,
		"function", function,
		"exit_code", exitCode,
		"duration_ms", durationMs,
	)
}
