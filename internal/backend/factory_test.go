package backend

import (
	"context"
	"path/filepath"
	"testing"

	"studyledger/internal/config"
)

func TestCreateBackend(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "data.db")}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown type", Config{Type: "sheets"}, true},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(context.Background(), tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			if res.Store == nil || res.Cleanup == nil {
				t.Fatal("expected store and cleanup")
			}
			if _, err := res.Store.ListPeriods(context.Background()); err != nil {
				t.Fatalf("store not usable: %v", err)
			}
			if err := res.Cleanup(); err != nil {
				t.Fatalf("cleanup: %v", err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{Backend: "sqlite", DBPath: "/tmp/x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := FromAppConfig(&config.Config{Backend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 2 || got[0] != "sqlite" || got[1] != "memory" {
		t.Fatalf("unexpected types: %v", got)
	}
}
