package storage

import (
	"context"

	"studyledger/internal/core"
)

// MutateFunc maps the current minutes of a ledger cell to its new value.
// Returning 0 removes the cell; returning an error leaves it untouched.
type MutateFunc func(current int64) (int64, error)

// Ports implemented by the sqlite and memory stores.
type (
	PeriodStore interface {
		InsertPeriod(ctx context.Context, p core.Period) (core.Period, error)
		GetPeriod(ctx context.Context, id int64) (core.Period, error)
		// ListPeriods returns every period ordered by start date, then id.
		ListPeriods(ctx context.Context) ([]core.Period, error)
		// PeriodsCovering returns the periods containing d, ordered like ListPeriods.
		PeriodsCovering(ctx context.Context, d core.Date) ([]core.Period, error)
		UpdatePeriod(ctx context.Context, p core.Period) error
		// DeletePeriod removes the period together with its subjects and their entries.
		DeletePeriod(ctx context.Context, id int64) error
	}

	SubjectStore interface {
		InsertSubject(ctx context.Context, s core.Subject) (core.Subject, error)
		GetSubject(ctx context.Context, id int64) (core.Subject, error)
		// ListSubjects returns the subjects of a period ordered by id.
		ListSubjects(ctx context.Context, periodID int64) ([]core.Subject, error)
		// SubjectsByShortName searches every period, ordered by id.
		SubjectsByShortName(ctx context.Context, shortName string) ([]core.Subject, error)
		UpdateSubject(ctx context.Context, s core.Subject) error
		// DeleteSubject removes the subject and its entries.
		DeleteSubject(ctx context.Context, id int64) error
	}

	EntryStore interface {
		// GetEntry returns core.ErrNotFound when the cell is absent.
		GetEntry(ctx context.Context, subjectID int64, d core.Date) (core.Entry, error)
		// MutateEntry runs fn on the current cell value and writes the result atomically.
		MutateEntry(ctx context.Context, subjectID int64, d core.Date, fn MutateFunc) (int64, error)
		// SumEntries groups the minutes inside iv by subject. Subjects without entries are omitted.
		SumEntries(ctx context.Context, subjectIDs []int64, iv core.Interval) (map[int64]int64, error)
		// ListEntries returns the entries inside iv ordered by date, then subject.
		ListEntries(ctx context.Context, subjectIDs []int64, iv core.Interval) ([]core.Entry, error)
	}

	Store interface {
		PeriodStore
		SubjectStore
		EntryStore
		Close() error
	}
)
