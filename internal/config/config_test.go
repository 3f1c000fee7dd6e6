package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DBPath:     "./test.db",
		Backend:    "sqlite",
		DateFormat: "01-02-2006",
		WeekStart:  "monday",
		ExportDir:  "./exports",
		LogLevel:   "warn",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid memory config without path",
			mutate:  func(c *Config) { c.Backend = "memory"; c.DBPath = "" },
			wantErr: false,
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.Backend = "postgres" },
			wantErr:     true,
			errorString: "invalid backend 'postgres': must be one of [sqlite memory]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty when using sqlite backend",
		},
		{
			name:        "date format without year",
			mutate:      func(c *Config) { c.DateFormat = "01-02" },
			wantErr:     true,
			errorString: "invalid date format '01-02'",
		},
		{
			name:        "empty date format",
			mutate:      func(c *Config) { c.DateFormat = "" },
			wantErr:     true,
			errorString: "date format cannot be empty",
		},
		{
			name:        "invalid week start",
			mutate:      func(c *Config) { c.WeekStart = "someday" },
			wantErr:     true,
			errorString: "invalid week start 'someday'",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error but got none")
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Backend: "nope", DateFormat: "", WeekStart: "x", LogLevel: "y"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if n := strings.Count(err.Error(), "\n- "); n != 4 {
		t.Fatalf("expected 4 collected problems, got %d: %v", n, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %q", cfg.Backend)
	}
	if cfg.DateFormat != "01-02-2006" {
		t.Errorf("expected default date format, got %q", cfg.DateFormat)
	}
	if cfg.Weekday() != time.Monday {
		t.Errorf("expected monday week start, got %v", cfg.Weekday())
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("studyledger", "data.db")) {
		t.Errorf("unexpected default db path %q", cfg.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studyledger.yaml")
	content := "backend: memory\nweek_start: Sunday\ndate_format: \"2006-01-02\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STUDYLEDGER_DATE_FORMAT", "02/01/2006")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "memory" {
		t.Errorf("file value not applied, backend=%q", cfg.Backend)
	}
	if cfg.Weekday() != time.Sunday {
		t.Errorf("week start not normalized, got %v", cfg.Weekday())
	}
	if cfg.DateFormat != "02/01/2006" {
		t.Errorf("env must override file, got %q", cfg.DateFormat)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyledger.yaml")
	if err := os.WriteFile(path, []byte("backend: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed file")
	}
}
