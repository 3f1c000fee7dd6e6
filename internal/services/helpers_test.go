package services

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
	"studyledger/internal/storage/memory"
)

// forEachStore runs fn against a fresh memory store and a fresh sqlite store.
func forEachStore(t *testing.T, fn func(t *testing.T, store storage.Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		fn(t, memory.New())
	})
	t.Run("sqlite", func(t *testing.T) {
		repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"), nil)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		fn(t, repo)
	})
}

func newEngine(store storage.Store) *Engine {
	return NewEngine(store, time.Monday, log.Discard())
}

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{Level: slog.LevelDebug, Output: buf})
}

func d(month, day int) core.Date {
	return core.NewDate(2025, month, day)
}

func mustPeriod(t *testing.T, e *Engine, start, end core.Date, desc string) core.Period {
	t.Helper()
	p, err := e.Periods.Create(context.Background(), start, end, desc)
	if err != nil {
		t.Fatalf("create period %s: %v", desc, err)
	}
	return p
}

func mustSubject(t *testing.T, e *Engine, periodID int64, short, name string) core.Subject {
	t.Helper()
	s, err := e.Subjects.Add(context.Background(), periodID, short, name)
	if err != nil {
		t.Fatalf("add subject %s: %v", short, err)
	}
	return s
}

func mustSet(t *testing.T, e *Engine, subjectID int64, day core.Date, minutes int64) {
	t.Helper()
	if _, err := e.Ledger.Set(context.Background(), subjectID, day, minutes); err != nil {
		t.Fatalf("set %d on %s: %v", minutes, day.StorageString(), err)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
