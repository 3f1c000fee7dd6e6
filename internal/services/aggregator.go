package services

import (
	"context"
	"fmt"
	"time"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// Aggregator sums ledger minutes over days, weeks and months.
type Aggregator struct {
	entries   storage.EntryStore
	subjects  storage.SubjectStore
	weekStart time.Weekday
	logger    *log.Logger
}

func NewAggregator(entries storage.EntryStore, subjects storage.SubjectStore, weekStart time.Weekday, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Aggregator{
		entries:   entries,
		subjects:  subjects,
		weekStart: weekStart,
		logger:    logger.WithComponent(log.ComponentAggregate),
	}
}

// WeekOf returns the full calendar week containing d.
func (a *Aggregator) WeekOf(d core.Date) core.Interval {
	start := d.StartOfWeek(a.weekStart)
	return core.Interval{From: start, To: start.AddDays(6)}
}

// Sum returns the minutes of one subject inside iv. Zero bounds are open.
func (a *Aggregator) Sum(ctx context.Context, subjectID int64, iv core.Interval) (int64, error) {
	sums, err := a.entries.SumEntries(ctx, []int64{subjectID}, iv)
	if err != nil {
		return 0, err
	}
	return sums[subjectID], nil
}

// SumTotal returns every minute ever recorded for the subject.
func (a *Aggregator) SumTotal(ctx context.Context, subjectID int64) (int64, error) {
	return a.Sum(ctx, subjectID, core.Unbounded())
}

// SumMany returns the minutes of each subject inside iv, with zero for subjects without entries.
func (a *Aggregator) SumMany(ctx context.Context, subjectIDs []int64, iv core.Interval) (map[int64]int64, error) {
	sums, err := a.entries.SumEntries(ctx, subjectIDs, iv)
	if err != nil {
		return nil, err
	}
	for _, id := range subjectIDs {
		if _, ok := sums[id]; !ok {
			sums[id] = 0
		}
	}
	return sums, nil
}

// Summarize totals the given subjects over iv, keeping their order.
func (a *Aggregator) Summarize(ctx context.Context, subjects []core.Subject, iv core.Interval) (core.Summary, error) {
	sums, err := a.SumMany(ctx, subjectIDs(subjects), iv)
	if err != nil {
		return core.Summary{}, err
	}
	out := core.Summary{Interval: iv, BySubject: make([]core.SubjectMinutes, 0, len(subjects))}
	for _, sub := range subjects {
		m := sums[sub.ID]
		out.Total += m
		out.BySubject = append(out.BySubject, core.SubjectMinutes{Subject: sub, Minutes: m})
	}
	return out, nil
}

// DailyRows returns one row per calendar day of iv.
func (a *Aggregator) DailyRows(ctx context.Context, subjects []core.Subject, iv core.Interval) ([]core.Row, error) {
	if err := requireBounded(iv); err != nil {
		return nil, err
	}
	ids := subjectIDs(subjects)
	entries, err := a.entries.ListEntries(ctx, ids, iv)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]map[int64]int64)
	for _, e := range entries {
		key := e.Date.StorageString()
		if byDay[key] == nil {
			byDay[key] = make(map[int64]int64)
		}
		byDay[key][e.SubjectID] += e.DedicatedTime
	}

	var rows []core.Row
	for d := iv.From; !d.After(iv.To); d = d.AddDays(1) {
		minutes := zeroed(ids)
		for id, m := range byDay[d.StorageString()] {
			minutes[id] = m
		}
		rows = append(rows, core.Row{Interval: core.Interval{From: d, To: d}, Minutes: minutes})
	}
	return rows, nil
}

// WeeklyRows returns one row per week touching iv, each clipped to iv.
func (a *Aggregator) WeeklyRows(ctx context.Context, subjects []core.Subject, iv core.Interval) ([]core.Row, error) {
	if err := requireBounded(iv); err != nil {
		return nil, err
	}
	var rows []core.Row
	for w := iv.From.StartOfWeek(a.weekStart); !w.After(iv.To); w = w.AddDays(7) {
		bucket := core.Interval{From: w, To: w.AddDays(6)}.Clip(iv)
		row, err := a.row(ctx, subjects, bucket)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MonthlyRows returns one row per calendar month touching iv, each clipped to iv.
func (a *Aggregator) MonthlyRows(ctx context.Context, subjects []core.Subject, iv core.Interval) ([]core.Row, error) {
	if err := requireBounded(iv); err != nil {
		return nil, err
	}
	var rows []core.Row
	for m := iv.From.StartOfMonth(); !m.After(iv.To); m = m.EndOfMonth().AddDays(1) {
		bucket := core.Interval{From: m, To: m.EndOfMonth()}.Clip(iv)
		row, err := a.row(ctx, subjects, bucket)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rows dispatches on mode.
func (a *Aggregator) Rows(ctx context.Context, mode core.Mode, subjects []core.Subject, iv core.Interval) ([]core.Row, error) {
	switch mode {
	case core.Daily:
		return a.DailyRows(ctx, subjects, iv)
	case core.Weekly:
		return a.WeeklyRows(ctx, subjects, iv)
	case core.Monthly:
		return a.MonthlyRows(ctx, subjects, iv)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// WeeklyAverage averages the period's weekly totals over the weeks starting at the
// week of from and ending before the week of until. The first week is clipped to from.
// It reports false when no week was counted.
func (a *Aggregator) WeeklyAverage(ctx context.Context, period core.Period, from, until core.Date) (float64, bool, error) {
	subjects, err := a.subjects.ListSubjects(ctx, period.ID)
	if err != nil {
		return 0, false, err
	}
	ids := subjectIDs(subjects)

	stop := until.StartOfWeek(a.weekStart)
	var sum int64
	weeks := 0
	for w := from.StartOfWeek(a.weekStart); w.Before(stop); w = w.AddDays(7) {
		bucket := core.Interval{From: core.MaxDate(w, from), To: w.AddDays(6)}
		sums, err := a.SumMany(ctx, ids, bucket)
		if err != nil {
			return 0, false, err
		}
		for _, m := range sums {
			sum += m
		}
		weeks++
	}

	a.logger.DebugContext(ctx, "Weekly average computed",
		log.FieldPeriodID, period.ID,
		log.FieldWeeks, weeks,
		log.FieldMinutes, sum)

	if weeks == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(weeks), true, nil
}

func (a *Aggregator) row(ctx context.Context, subjects []core.Subject, bucket core.Interval) (core.Row, error) {
	sums, err := a.SumMany(ctx, subjectIDs(subjects), bucket)
	if err != nil {
		return core.Row{}, err
	}
	return core.Row{Interval: bucket, Minutes: sums}, nil
}

func requireBounded(iv core.Interval) error {
	if iv.From.IsEmpty() || iv.To.IsEmpty() {
		return fmt.Errorf("table interval needs both bounds: %w", core.ErrInvalidRange)
	}
	return iv.Validate()
}

func subjectIDs(subjects []core.Subject) []int64 {
	ids := make([]int64, len(subjects))
	for i, s := range subjects {
		ids[i] = s.ID
	}
	return ids
}

func zeroed(ids []int64) map[int64]int64 {
	m := make(map[int64]int64, len(ids))
	for _, id := range ids {
		m[id] = 0
	}
	return m
}
