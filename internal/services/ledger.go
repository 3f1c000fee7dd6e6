package services

import (
	"context"
	"errors"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// Ledger mutates the per-day cells of subjects. Each mutation is one
// read-modify-write delegated to the store, which never keeps a zero row.
type Ledger struct {
	entries storage.EntryStore
	logger  *log.Logger
}

func NewLedger(entries storage.EntryStore, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Discard()
	}
	return &Ledger{
		entries: entries,
		logger:  logger.WithComponent(log.ComponentLedger),
	}
}

// Add increases the cell by delta and returns the new amount.
func (l *Ledger) Add(ctx context.Context, subjectID int64, d core.Date, delta int64) (int64, error) {
	if delta < 0 {
		return 0, core.ErrNegativeAmount
	}
	return l.mutate(ctx, log.OpAdd, subjectID, d, delta, func(current int64) (int64, error) {
		return current + delta, nil
	})
}

// Subtract decreases the cell by delta, clamping at zero.
func (l *Ledger) Subtract(ctx context.Context, subjectID int64, d core.Date, delta int64) (int64, error) {
	if delta < 0 {
		return 0, core.ErrNegativeAmount
	}
	return l.mutate(ctx, log.OpSubtract, subjectID, d, delta, func(current int64) (int64, error) {
		return max(current-delta, 0), nil
	})
}

// SubtractStrict rejects a delta larger than the cell with *core.InsufficientTimeError
// and leaves the cell unchanged.
func (l *Ledger) SubtractStrict(ctx context.Context, subjectID int64, d core.Date, delta int64) (int64, error) {
	if delta < 0 {
		return 0, core.ErrNegativeAmount
	}
	return l.mutate(ctx, log.OpSubtract, subjectID, d, delta, func(current int64) (int64, error) {
		if delta > current {
			return current, &core.InsufficientTimeError{Current: current, Requested: delta}
		}
		return current - delta, nil
	})
}

// Set replaces the cell. Zero removes it.
func (l *Ledger) Set(ctx context.Context, subjectID int64, d core.Date, amount int64) (int64, error) {
	if amount < 0 {
		return 0, core.ErrNegativeAmount
	}
	return l.mutate(ctx, log.OpSet, subjectID, d, amount, func(int64) (int64, error) {
		return amount, nil
	})
}

// Read returns the minutes recorded in the cell, 0 when absent.
func (l *Ledger) Read(ctx context.Context, subjectID int64, d core.Date) (int64, error) {
	e, err := l.entries.GetEntry(ctx, subjectID, d)
	if errors.Is(err, core.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return e.DedicatedTime, nil
}

func (l *Ledger) mutate(ctx context.Context, op string, subjectID int64, d core.Date, delta int64, fn storage.MutateFunc) (int64, error) {
	amount, err := l.entries.MutateEntry(ctx, subjectID, d, fn)
	if err != nil {
		return amount, err
	}
	l.logger.DebugContext(ctx, "Ledger cell updated",
		log.FieldOperation, op,
		log.FieldSubjectID, subjectID,
		log.FieldDate, d.StorageString(),
		log.FieldDelta, delta,
		log.FieldMinutes, amount)
	return amount, nil
}
