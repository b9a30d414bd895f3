package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Modes.
const (
	ModeFuzzy = "fuzzy"
	ModeList  = "list"
)

// Config represents the complete lk configuration.
type Config struct {
	Mode      string          `yaml:"mode"` // fuzzy or list
	Discovery DiscoveryConfig `yaml:"discovery"`
	Picker    PickerConfig    `yaml:"picker"`
	Runner    RunnerConfig    `yaml:"runner"`
	History   HistoryConfig   `yaml:"history"`
	RunLog    RunLogConfig    `yaml:"runlog"`
	Log       LogConfig       `yaml:"log"`
}

// DiscoveryConfig selects which files are considered scripts.
type DiscoveryConfig struct {
	Includes []string `yaml:"includes"` // Glob patterns, relative to the working directory
	Excludes []string `yaml:"excludes"` // Glob patterns; matching paths and everything under them are skipped
}

// PickerConfig tunes the interactive picker.
type PickerConfig struct {
	VisibleRows     int `yaml:"visible_rows"`      // Rows of results above the prompt
	EscapeTimeoutMs int `yaml:"escape_timeout_ms"` // How long a lone ESC waits before it cancels
	PollIntervalMs  int `yaml:"poll_interval_ms"`  // Input poll timeout per loop iteration
}

// RunnerConfig controls how functions are executed.
type RunnerConfig struct {
	Shell string `yaml:"shell"` // Interpreter command line, e.g. "bash" or "bash -e"
}

// HistoryConfig controls shell history integration.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"` // Append executed lk commands to the shell history file
}

// RunLogConfig controls the run log database.
type RunLogConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty means the default log file
}

// DefaultExcludes are never searched for scripts unless overridden.
var DefaultExcludes = []string{
	"**/.git",
	"**/.github",
	"**/.vscode",
	"**/node_modules",
	"**/target",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode: ModeFuzzy,
		Discovery: DiscoveryConfig{
			Includes: []string{"**/*"},
			Excludes: append([]string(nil), DefaultExcludes...),
		},
		Picker: PickerConfig{
			VisibleRows:     8,
			EscapeTimeoutMs: 25,
			PollIntervalMs:  5,
		},
		Runner: RunnerConfig{
			Shell: "bash",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		RunLog: RunLogConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by key. Top-level keys have no dot;
// everything else is "section.key", for example "picker.visible_rows".
// List values are returned comma-separated.
func (c *Config) Get(key string) (string, error) {
	if key == "mode" {
		return c.Mode, nil
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok || strings.Contains(field, ".") {
		return "", errors.New("key must be 'mode' or in format 'section.key'")
	}

	switch section {
	case "discovery":
		return c.getDiscoveryField(field)
	case "picker":
		return c.getPickerField(field)
	case "runner":
		return c.getRunnerField(field)
	case "history":
		return c.getHistoryField(field)
	case "runlog":
		return c.getRunLogField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by key. List values are comma-separated.
func (c *Config) Set(key, value string) error {
	if key == "mode" {
		if !IsValidMode(value) {
			return fmt.Errorf("invalid value for mode: must be fuzzy or list (got: %s)", value)
		}
		c.Mode = value
		return nil
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok || strings.Contains(field, ".") {
		return errors.New("key must be 'mode' or in format 'section.key'")
	}

	switch section {
	case "discovery":
		return c.setDiscoveryField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "runner":
		return c.setRunnerField(field, value)
	case "history":
		return c.setHistoryField(field, value)
	case "runlog":
		return c.setRunLogField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getDiscoveryField(field string) (string, error) {
	switch field {
	case "includes":
		return strings.Join(c.Discovery.Includes, ","), nil
	case "excludes":
		return strings.Join(c.Discovery.Excludes, ","), nil
	default:
		return "", fmt.Errorf("unknown field: discovery.%s", field)
	}
}

func (c *Config) setDiscoveryField(field, value string) error {
	switch field {
	case "includes":
		c.Discovery.Includes = splitList(value)
	case "excludes":
		c.Discovery.Excludes = splitList(value)
	default:
		return fmt.Errorf("unknown field: discovery.%s", field)
	}
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "visible_rows":
		return strconv.Itoa(c.Picker.VisibleRows), nil
	case "escape_timeout_ms":
		return strconv.Itoa(c.Picker.EscapeTimeoutMs), nil
	case "poll_interval_ms":
		return strconv.Itoa(c.Picker.PollIntervalMs), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	var target *int
	switch field {
	case "visible_rows":
		target = &c.Picker.VisibleRows
	case "escape_timeout_ms":
		target = &c.Picker.EscapeTimeoutMs
	case "poll_interval_ms":
		target = &c.Picker.PollIntervalMs
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	*target = v
	return nil
}

func (c *Config) getRunnerField(field string) (string, error) {
	switch field {
	case "shell":
		return c.Runner.Shell, nil
	default:
		return "", fmt.Errorf("unknown field: runner.%s", field)
	}
}

func (c *Config) setRunnerField(field, value string) error {
	switch field {
	case "shell":
		c.Runner.Shell = value
	default:
		return fmt.Errorf("unknown field: runner.%s", field)
	}
	return nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "enabled":
		return strconv.FormatBool(c.History.Enabled), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "enabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		c.History.Enabled = v
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func (c *Config) getRunLogField(field string) (string, error) {
	switch field {
	case "enabled":
		return strconv.FormatBool(c.RunLog.Enabled), nil
	default:
		return "", fmt.Errorf("unknown field: runlog.%s", field)
	}
}

func (c *Config) setRunLogField(field, value string) error {
	switch field {
	case "enabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		c.RunLog.Enabled = v
	default:
		return fmt.Errorf("unknown field: runlog.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid value for level: must be debug, info, warn, or error (got: %s)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !IsValidMode(c.Mode) {
		return fmt.Errorf("mode must be fuzzy or list (got: %s)", c.Mode)
	}

	if len(c.Discovery.Includes) == 0 {
		return errors.New("discovery.includes must name at least one pattern")
	}

	if c.Picker.VisibleRows < 1 {
		return errors.New("picker.visible_rows must be >= 1")
	}

	if c.Picker.EscapeTimeoutMs < 1 {
		return errors.New("picker.escape_timeout_ms must be >= 1")
	}

	if c.Picker.PollIntervalMs < 1 {
		return errors.New("picker.poll_interval_ms must be >= 1")
	}

	if strings.TrimSpace(c.Runner.Shell) == "" {
		return errors.New("runner.shell must not be empty")
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

// IsValidMode reports whether mode names a known mode.
func IsValidMode(mode string) bool {
	switch mode {
	case ModeFuzzy, ModeList:
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LK_MODE"); IsValidMode(v) {
		c.Mode = v
	}
	if v := os.Getenv("LK_VISIBLE_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Picker.VisibleRows = n
		}
	}
	if v := os.Getenv("LK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("LK_LOG_LEVEL"); isValidLogLevel(v) {
		c.Log.Level = v
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"mode",
		"discovery.includes",
		"discovery.excludes",
		"picker.visible_rows",
		"picker.escape_timeout_ms",
		"picker.poll_interval_ms",
		"runner.shell",
		"history.enabled",
		"runlog.enabled",
		"log.level",
		"log.file",
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
