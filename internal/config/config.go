package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"discipline-dashboard/internal/domain"
)

// Log backends understood by CreateStores
const (
	LogBackendCSV    = "csv"
	LogBackendSQLite = "sqlite"
)

// Config holds all configuration options for the dashboard
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Timer       TimerConfig       `yaml:"timer"`
	Watch       WatchConfig       `yaml:"watch"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
}

// StorageConfig holds file and database locations
type StorageConfig struct {
	Dir            string        `yaml:"dir" env:"DASH_DIR"`
	TaskFile       string        `yaml:"task_file" env:"DASH_TASK_FILE"`
	LogFile        string        `yaml:"log_file" env:"DASH_LOG_FILE"`
	LogBackend     string        `yaml:"log_backend" env:"DASH_LOG_BACKEND"`
	DBFile         string        `yaml:"db_file" env:"DASH_DB_FILE"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"DASH_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"-" env:"DASH_DIR_PERMISSIONS"`
}

// TimerConfig holds countdown settings
type TimerConfig struct {
	Presets      []int         `yaml:"presets" env:"DASH_TIMER_PRESETS"`
	TickInterval time.Duration `yaml:"tick_interval" env:"DASH_TIMER_TICK"`
}

// WatchConfig controls reloading the task list when the task file changes
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled" env:"DASH_WATCH"`
	Interval time.Duration `yaml:"interval" env:"DASH_WATCH_INTERVAL"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskTextMaxLength int `yaml:"task_text_max_length" env:"DASH_VALIDATION_TASK_MAX"`
	MaxSessionMinutes int `yaml:"max_session_minutes" env:"DASH_VALIDATION_MAX_MINUTES"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	SummaryMode  string `yaml:"summary_mode" env:"DASH_SUMMARY_MODE"`
	HistoryWeeks int    `yaml:"history_weeks" env:"DASH_HISTORY_WEEKS"`
	NoColor      bool   `yaml:"no_color" env:"DASH_NO_COLOR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"DASH_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"DASH_VERBOSE"`
	LogFile string        `yaml:"log_file" env:"DASH_APP_LOG_FILE"`
}

// DefaultDir returns ~/.dash, or .dash in the working directory when no home is available
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dash"
	}
	return filepath.Join(homeDir, ".dash")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:            DefaultDir(),
			TaskFile:       "tasks.json",
			LogFile:        "pomodoro_log.csv",
			LogBackend:     LogBackendCSV,
			DBFile:         "dash.db",
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Timer: TimerConfig{
			Presets:      []int{45, 90},
			TickInterval: time.Second,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Interval: time.Second,
		},
		Validation: ValidationConfig{
			TaskTextMaxLength: 255,
			MaxSessionMinutes: 24 * 60,
		},
		Display: DisplayConfig{
			SummaryMode:  string(domain.SummaryModeCount),
			HistoryWeeks: 4,
			NoColor:      false,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
			LogFile: "dash.log",
		},
	}
}

// resolve joins name onto the storage directory unless it is already absolute
func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Storage.Dir, name)
}

// TaskFilePath returns the full path to the task file
func (c *Config) TaskFilePath() string {
	return c.resolve(c.Storage.TaskFile)
}

// LogFilePath returns the full path to the CSV session log
func (c *Config) LogFilePath() string {
	return c.resolve(c.Storage.LogFile)
}

// DatabasePath returns the full path to the SQLite session log
func (c *Config) DatabasePath() string {
	return c.resolve(c.Storage.DBFile)
}

// GetWriteTimeout returns the timeout applied to a single log append
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Storage.WriteTimeout
}

// GetSummaryMode returns the configured summary mode, falling back to count
func (c *Config) GetSummaryMode() domain.SummaryMode {
	mode, err := domain.ParseSummaryMode(c.Display.SummaryMode)
	if err != nil {
		return domain.SummaryModeCount
	}
	return mode
}

// DirMode returns the permissions used when creating the storage directory
func (c *Config) DirMode() os.FileMode {
	return os.FileMode(c.Storage.DirPermissions)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if dir := os.Getenv("DASH_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if name := os.Getenv("DASH_TASK_FILE"); name != "" {
		c.Storage.TaskFile = name
	}
	if name := os.Getenv("DASH_LOG_FILE"); name != "" {
		c.Storage.LogFile = name
	}
	if backend := os.Getenv("DASH_LOG_BACKEND"); backend != "" {
		c.Storage.LogBackend = strings.ToLower(backend)
	}
	if name := os.Getenv("DASH_DB_FILE"); name != "" {
		c.Storage.DBFile = name
	}
	if timeout := os.Getenv("DASH_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("DASH_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Timer configuration
	if presets := os.Getenv("DASH_TIMER_PRESETS"); presets != "" {
		c.Timer.Presets = ParseIntListWithFallback(presets, c.Timer.Presets)
	}
	if tick := os.Getenv("DASH_TIMER_TICK"); tick != "" {
		c.Timer.TickInterval = ParseDurationWithFallback(tick, c.Timer.TickInterval)
	}

	// Watch configuration
	if enabled := os.Getenv("DASH_WATCH"); enabled != "" {
		c.Watch.Enabled = ParseBoolWithFallback(enabled, c.Watch.Enabled)
	}
	if interval := os.Getenv("DASH_WATCH_INTERVAL"); interval != "" {
		c.Watch.Interval = ParseDurationWithFallback(interval, c.Watch.Interval)
	}

	// Validation configuration
	if maxLen := os.Getenv("DASH_VALIDATION_TASK_MAX"); maxLen != "" {
		c.Validation.TaskTextMaxLength = ParseIntWithFallback(maxLen, c.Validation.TaskTextMaxLength)
	}
	if maxMinutes := os.Getenv("DASH_VALIDATION_MAX_MINUTES"); maxMinutes != "" {
		c.Validation.MaxSessionMinutes = ParseIntWithFallback(maxMinutes, c.Validation.MaxSessionMinutes)
	}

	// Display configuration
	if mode := os.Getenv("DASH_SUMMARY_MODE"); mode != "" {
		c.Display.SummaryMode = strings.ToLower(mode)
	}
	if weeks := os.Getenv("DASH_HISTORY_WEEKS"); weeks != "" {
		c.Display.HistoryWeeks = ParseIntWithFallback(weeks, c.Display.HistoryWeeks)
	}
	if noColor := os.Getenv("DASH_NO_COLOR"); noColor != "" {
		c.Display.NoColor = ParseBoolWithFallback(noColor, c.Display.NoColor)
	}

	// Application configuration
	if timeout := os.Getenv("DASH_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("DASH_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}
	if logFile := os.Getenv("DASH_APP_LOG_FILE"); logFile != "" {
		c.Application.LogFile = logFile
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate storage configuration
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.TaskFile == "" {
		return &ConfigError{Field: "storage.task_file", Message: "task file cannot be empty"}
	}
	switch c.Storage.LogBackend {
	case LogBackendCSV:
		if c.Storage.LogFile == "" {
			return &ConfigError{Field: "storage.log_file", Message: "log file cannot be empty"}
		}
	case LogBackendSQLite:
		if c.Storage.DBFile == "" {
			return &ConfigError{Field: "storage.db_file", Message: "database file cannot be empty"}
		}
	default:
		return &ConfigError{Field: "storage.log_backend", Message: "log backend must be 'csv' or 'sqlite'"}
	}
	if c.Storage.WriteTimeout <= 0 {
		return &ConfigError{Field: "storage.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate timer configuration
	if len(c.Timer.Presets) == 0 {
		return &ConfigError{Field: "timer.presets", Message: "at least one preset is required"}
	}
	for _, minutes := range c.Timer.Presets {
		if minutes <= 0 {
			return &ConfigError{Field: "timer.presets", Message: "presets must be positive minute counts"}
		}
		if limit := c.Validation.MaxSessionMinutes; limit >= 1 && minutes > limit {
			return &ConfigError{Field: "timer.presets", Message: fmt.Sprintf("presets must be at most %d minutes", limit)}
		}
	}
	if c.Timer.TickInterval <= 0 {
		return &ConfigError{Field: "timer.tick_interval", Message: "tick interval must be positive"}
	}

	// Validate watch configuration
	if c.Watch.Enabled && c.Watch.Interval <= 0 {
		return &ConfigError{Field: "watch.interval", Message: "watch interval must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TaskTextMaxLength < 1 {
		return &ConfigError{Field: "validation.task_text_max_length", Message: "task text maximum length must be at least 1"}
	}
	if c.Validation.MaxSessionMinutes < 1 {
		return &ConfigError{Field: "validation.max_session_minutes", Message: "max session minutes must be at least 1"}
	}

	// Validate display configuration
	if _, err := domain.ParseSummaryMode(c.Display.SummaryMode); err != nil {
		return &ConfigError{Field: "display.summary_mode", Message: "summary mode must be 'count' or 'minutes'"}
	}
	if c.Display.HistoryWeeks < 1 {
		return &ConfigError{Field: "display.history_weeks", Message: "history weeks must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
