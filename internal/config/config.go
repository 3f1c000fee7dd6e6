package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix  = "STUDYLEDGER"
	configName = "studyledger"
)

type Config struct {
	// Storage
	DBPath  string `mapstructure:"db_path"`
	Backend string `mapstructure:"backend"`

	// Boundary formatting
	DateFormat string `mapstructure:"date_format"`
	WeekStart  string `mapstructure:"week_start"`

	// Export
	ExportDir string `mapstructure:"export_dir"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DataDir returns the per-user data directory, ~/.local/share/studyledger.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", configName)
}

// Load reads configuration with precedence env > config file > defaults.
// An empty path searches the usual config directories; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(DataDir(), "data.db"))
	v.SetDefault("backend", "sqlite")
	v.SetDefault("date_format", "01-02-2006")
	v.SetDefault("week_start", "monday")
	v.SetDefault("export_dir", filepath.Join(DataDir(), "exports"))
	v.SetDefault("log_level", "warn")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, configName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.WeekStart = strings.ToLower(strings.TrimSpace(cfg.WeekStart))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "sqlite" && c.DBPath == "" {
		errors = append(errors, "database path cannot be empty when using sqlite backend")
	}

	if c.DateFormat == "" {
		errors = append(errors, "date format cannot be empty")
	} else if !roundTrips(c.DateFormat) {
		errors = append(errors, fmt.Sprintf("invalid date format '%s': must contain day, month and year", c.DateFormat))
	}

	if _, ok := weekdays[c.WeekStart]; !ok {
		errors = append(errors, fmt.Sprintf("invalid week start '%s': must be a weekday name", c.WeekStart))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Weekday returns the configured first day of the week, Monday when unset.
func (c *Config) Weekday() time.Weekday {
	if wd, ok := weekdays[c.WeekStart]; ok {
		return wd
	}
	return time.Monday
}

// roundTrips checks that a layout keeps enough information to recover a date.
func roundTrips(layout string) bool {
	probe := time.Date(2031, time.November, 23, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, probe.Format(layout))
	if err != nil {
		return false
	}
	return parsed.Equal(probe)
}
