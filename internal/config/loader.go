package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at an explicit config file
const ConfigFileEnv = "DASH_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// WithFile makes the loader read path instead of the default config file location
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// configFilePath picks the explicit file, then DASH_CONFIG, then config.yaml in the storage dir
func (l *Loader) configFilePath() (string, bool) {
	if l.filePath != "" {
		return l.filePath, true
	}
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path, true
	}
	dir := l.config.Storage.Dir
	if envDir := os.Getenv("DASH_DIR"); envDir != "" {
		dir = envDir
	}
	return filepath.Join(dir, "config.yaml"), false
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, when present
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// Step 1: Start with defaults (already done in NewConfig)

	// Step 2: Load from the config file
	path, explicit := l.configFilePath()
	if err := l.config.LoadFromFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			// the default location is optional
		} else {
			return nil, err
		}
	}

	// Step 3: Load from environment variables
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Step 4: Validate the configuration
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	// Load base configuration
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromFile merges the YAML document at path over the current values.
// Keys absent from the file keep their current value.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("parse %s: %v", path, err)}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Storage overrides
	Dir          *string
	TaskFile     *string
	LogFile      *string
	LogBackend   *string
	DBFile       *string
	WriteTimeout *time.Duration

	// Timer overrides
	Presets      *[]int
	TickInterval *time.Duration

	// Watch overrides
	Watch         *bool
	WatchInterval *time.Duration

	// Display overrides
	SummaryMode  *string
	HistoryWeeks *int
	NoColor      *bool

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Storage overrides
	if overrides.Dir != nil {
		config.Storage.Dir = *overrides.Dir
	}
	if overrides.TaskFile != nil {
		config.Storage.TaskFile = *overrides.TaskFile
	}
	if overrides.LogFile != nil {
		config.Storage.LogFile = *overrides.LogFile
	}
	if overrides.LogBackend != nil {
		config.Storage.LogBackend = strings.ToLower(*overrides.LogBackend)
	}
	if overrides.DBFile != nil {
		config.Storage.DBFile = *overrides.DBFile
	}
	if overrides.WriteTimeout != nil {
		config.Storage.WriteTimeout = *overrides.WriteTimeout
	}

	// Timer overrides
	if overrides.Presets != nil {
		config.Timer.Presets = *overrides.Presets
	}
	if overrides.TickInterval != nil {
		config.Timer.TickInterval = *overrides.TickInterval
	}

	// Watch overrides
	if overrides.Watch != nil {
		config.Watch.Enabled = *overrides.Watch
	}
	if overrides.WatchInterval != nil {
		config.Watch.Interval = *overrides.WatchInterval
	}

	// Display overrides
	if overrides.SummaryMode != nil {
		config.Display.SummaryMode = strings.ToLower(*overrides.SummaryMode)
	}
	if overrides.HistoryWeeks != nil {
		config.Display.HistoryWeeks = *overrides.HistoryWeeks
	}
	if overrides.NoColor != nil {
		config.Display.NoColor = *overrides.NoColor
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}

// ParseIntListWithFallback parses a comma separated list of integers such as
// "25,45,90". Any unparsable element rejects the whole list.
func ParseIntListWithFallback(s string, fallback []int) []int {
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		values = append(values, i)
	}
	return values
}
