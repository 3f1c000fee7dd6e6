package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"studyledger/internal/core"
	"studyledger/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

var _ Store = (*SQLiteRepository)(nil)

// DSN enables foreign keys and takes the write lock when a transaction begins.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	if err := RunMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection per invocation; every statement of a transaction must go through tx.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("SQLite store opened", log.FieldDBPath, dbPath)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// inTx runs fn inside a transaction and commits when it returns nil.
func (r *SQLiteRepository) inTx(ctx context.Context, op string, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewStoreError(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return core.NewStoreError(op+": commit", err)
	}
	return nil
}

// Periods

func (r *SQLiteRepository) InsertPeriod(ctx context.Context, p core.Period) (core.Period, error) {
	row, err := r.queries.CreatePeriod(ctx, CreatePeriodParams{
		StartDate:   p.Start.StorageString(),
		EndDate:     p.End.StorageString(),
		Description: p.Description,
	})
	if err != nil {
		return core.Period{}, core.NewStoreError("create period", err)
	}

	r.logger.DebugContext(ctx, "Period inserted",
		log.FieldPeriodID, row.ID,
		log.FieldFrom, row.StartDate,
		log.FieldTo, row.EndDate)

	return periodFromRow(row)
}

func (r *SQLiteRepository) GetPeriod(ctx context.Context, id int64) (core.Period, error) {
	row, err := r.queries.GetPeriod(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Period{}, fmt.Errorf("period %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Period{}, core.NewStoreError("get period", err)
	}
	return periodFromRow(row)
}

func (r *SQLiteRepository) ListPeriods(ctx context.Context) ([]core.Period, error) {
	rows, err := r.queries.ListPeriods(ctx)
	if err != nil {
		return nil, core.NewStoreError("list periods", err)
	}
	return periodsFromRows(rows)
}

func (r *SQLiteRepository) PeriodsCovering(ctx context.Context, d core.Date) ([]core.Period, error) {
	rows, err := r.queries.GetPeriodsCovering(ctx, d.StorageString())
	if err != nil {
		return nil, core.NewStoreError("find covering periods", err)
	}
	return periodsFromRows(rows)
}

func (r *SQLiteRepository) UpdatePeriod(ctx context.Context, p core.Period) error {
	n, err := r.queries.UpdatePeriod(ctx, UpdatePeriodParams{
		StartDate:   p.Start.StorageString(),
		EndDate:     p.End.StorageString(),
		Description: p.Description,
		ID:          p.ID,
	})
	if err != nil {
		return core.NewStoreError("update period", err)
	}
	if n == 0 {
		return fmt.Errorf("period %d: %w", p.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeletePeriod(ctx context.Context, id int64) error {
	return r.inTx(ctx, "delete period", func(q *Queries) error {
		if err := q.DeleteEntriesByPeriod(ctx, id); err != nil {
			return core.NewStoreError("delete period entries", err)
		}
		if err := q.DeleteSubjectsByPeriod(ctx, id); err != nil {
			return core.NewStoreError("delete period subjects", err)
		}
		n, err := q.DeletePeriod(ctx, id)
		if err != nil {
			return core.NewStoreError("delete period", err)
		}
		if n == 0 {
			return fmt.Errorf("period %d: %w", id, core.ErrNotFound)
		}
		r.logger.DebugContext(ctx, "Period deleted with dependents", log.FieldPeriodID, id)
		return nil
	})
}

// Subjects

func (r *SQLiteRepository) InsertSubject(ctx context.Context, s core.Subject) (core.Subject, error) {
	row, err := r.queries.CreateSubject(ctx, CreateSubjectParams{
		PeriodID:   s.PeriodID,
		ShortName:  s.ShortName,
		Name:       s.Name,
		FinalScore: nullScore(s.FinalScore),
	})
	if err != nil {
		return core.Subject{}, core.NewStoreError("create subject", err)
	}

	r.logger.DebugContext(ctx, "Subject inserted",
		log.FieldSubjectID, row.ID,
		log.FieldPeriodID, row.PeriodID,
		log.FieldShortName, row.ShortName)

	return row.toCore(), nil
}

func (r *SQLiteRepository) GetSubject(ctx context.Context, id int64) (core.Subject, error) {
	row, err := r.queries.GetSubject(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subject{}, fmt.Errorf("subject %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Subject{}, core.NewStoreError("get subject", err)
	}
	return row.toCore(), nil
}

func (r *SQLiteRepository) ListSubjects(ctx context.Context, periodID int64) ([]core.Subject, error) {
	rows, err := r.queries.ListSubjectsByPeriod(ctx, periodID)
	if err != nil {
		return nil, core.NewStoreError("list subjects", err)
	}
	return subjectsFromRows(rows), nil
}

func (r *SQLiteRepository) SubjectsByShortName(ctx context.Context, shortName string) ([]core.Subject, error) {
	rows, err := r.queries.GetSubjectsByShortName(ctx, shortName)
	if err != nil {
		return nil, core.NewStoreError("find subjects by short name", err)
	}
	return subjectsFromRows(rows), nil
}

func (r *SQLiteRepository) UpdateSubject(ctx context.Context, s core.Subject) error {
	n, err := r.queries.UpdateSubject(ctx, UpdateSubjectParams{
		ShortName:  s.ShortName,
		Name:       s.Name,
		FinalScore: nullScore(s.FinalScore),
		ID:         s.ID,
	})
	if err != nil {
		return core.NewStoreError("update subject", err)
	}
	if n == 0 {
		return fmt.Errorf("subject %d: %w", s.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSubject(ctx context.Context, id int64) error {
	return r.inTx(ctx, "delete subject", func(q *Queries) error {
		if err := q.DeleteEntriesBySubject(ctx, id); err != nil {
			return core.NewStoreError("delete subject entries", err)
		}
		n, err := q.DeleteSubject(ctx, id)
		if err != nil {
			return core.NewStoreError("delete subject", err)
		}
		if n == 0 {
			return fmt.Errorf("subject %d: %w", id, core.ErrNotFound)
		}
		return nil
	})
}

// Entries

func (r *SQLiteRepository) GetEntry(ctx context.Context, subjectID int64, d core.Date) (core.Entry, error) {
	row, err := r.queries.GetEntry(ctx, GetEntryParams{SubjectID: subjectID, Date: d.StorageString()})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry for subject %d on %s: %w", subjectID, d.StorageString(), core.ErrNotFound)
	}
	if err != nil {
		return core.Entry{}, core.NewStoreError("get entry", err)
	}
	e, err := row.toCore()
	if err != nil {
		return core.Entry{}, core.NewStoreError("decode entry", err)
	}
	return e, nil
}

func (r *SQLiteRepository) MutateEntry(ctx context.Context, subjectID int64, d core.Date, fn MutateFunc) (int64, error) {
	var result int64
	date := d.StorageString()

	err := r.inTx(ctx, "mutate entry", func(q *Queries) error {
		var current int64
		row, err := q.GetEntry(ctx, GetEntryParams{SubjectID: subjectID, Date: date})
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return core.NewStoreError("get entry", err)
		default:
			current = row.DedicatedTime
		}

		next, err := fn(current)
		if err != nil {
			result = current
			return err
		}
		if next < 0 {
			result = current
			return core.ErrNegativeAmount
		}
		result = next

		switch {
		case next == current:
			return nil
		case next == 0:
			err = q.DeleteEntry(ctx, row.ID)
		case current == 0:
			err = q.CreateEntry(ctx, CreateEntryParams{Date: date, SubjectID: subjectID, DedicatedTime: next})
		default:
			err = q.UpdateEntryTime(ctx, row.ID, next)
		}
		if err != nil {
			return core.NewStoreError("write entry", err)
		}

		r.logger.DebugContext(ctx, "Entry written",
			log.FieldSubjectID, subjectID,
			log.FieldDate, date,
			log.FieldPrevious, current,
			log.FieldMinutes, next)
		return nil
	})
	return result, err
}

func (r *SQLiteRepository) SumEntries(ctx context.Context, subjectIDs []int64, iv core.Interval) (map[int64]int64, error) {
	sums := make(map[int64]int64, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return sums, nil
	}
	from, to := bounds(iv)
	rows, err := r.queries.SumEntriesBySubject(ctx, subjectIDs, from, to)
	if err != nil {
		return nil, core.NewStoreError("sum entries", err)
	}
	for _, row := range rows {
		sums[row.SubjectID] = row.Total
	}
	return sums, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, subjectIDs []int64, iv core.Interval) ([]core.Entry, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	from, to := bounds(iv)
	rows, err := r.queries.ListEntriesInRange(ctx, subjectIDs, from, to)
	if err != nil {
		return nil, core.NewStoreError("list entries", err)
	}
	entries := make([]core.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toCore()
		if err != nil {
			return nil, core.NewStoreError("list entries", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func periodFromRow(row Period) (core.Period, error) {
	p, err := row.toCore()
	if err != nil {
		return core.Period{}, core.NewStoreError("decode period", err)
	}
	return p, nil
}

func periodsFromRows(rows []Period) ([]core.Period, error) {
	out := make([]core.Period, 0, len(rows))
	for _, row := range rows {
		p, err := periodFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func subjectsFromRows(rows []Subject) []core.Subject {
	out := make([]core.Subject, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCore())
	}
	return out
}
