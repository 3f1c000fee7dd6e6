package services

import (
	"context"
	"fmt"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// ReportService builds the status report and the tables handed to export sinks.
type ReportService struct {
	subjects   storage.SubjectStore
	aggregator *Aggregator
	logger     *log.Logger
}

func NewReportService(subjects storage.SubjectStore, aggregator *Aggregator, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportService{
		subjects:   subjects,
		aggregator: aggregator,
		logger:     logger.WithComponent(log.ComponentReport),
	}
}

// Status reports the day and the week containing date, both clipped to the period.
func (r *ReportService) Status(ctx context.Context, period core.Period, date core.Date) (core.Status, error) {
	subjects, err := r.subjects.ListSubjects(ctx, period.ID)
	if err != nil {
		return core.Status{}, err
	}

	st := core.Status{
		Period:        period,
		Date:          date,
		DaysElapsed:   max(core.DaysBetween(period.Start, date), 0),
		DaysRemaining: max(core.DaysBetween(date, period.End), 0),
	}

	if st.Day, err = r.aggregator.Summarize(ctx, subjects, core.Interval{From: date, To: date}); err != nil {
		return core.Status{}, fmt.Errorf("daily summary: %w", err)
	}

	week := r.aggregator.WeekOf(date)
	if st.Week, err = r.aggregator.Summarize(ctx, subjects, week.Clip(period.Interval())); err != nil {
		return core.Status{}, fmt.Errorf("weekly summary: %w", err)
	}

	lastDay := week.From.AddDays(-1)
	if !period.Covers(lastDay) {
		return st, nil
	}

	previous, err := r.aggregator.Summarize(ctx, subjects, r.aggregator.WeekOf(lastDay).Clip(period.Interval()))
	if err != nil {
		return core.Status{}, fmt.Errorf("previous week summary: %w", err)
	}
	st.PreviousWeek = &previous
	vsLast := core.Compare(float64(st.Week.Total), float64(previous.Total))
	st.VsLastWeek = &vsLast

	avg, ok, err := r.aggregator.WeeklyAverage(ctx, period, period.Start, date)
	if err != nil {
		return core.Status{}, fmt.Errorf("weekly average: %w", err)
	}
	if ok {
		st.Average = &avg
		if avg > 0 {
			vsAvg := core.Compare(float64(st.Week.Total), avg)
			st.VsAverage = &vsAvg
		}
	}

	return st, nil
}

// Table builds one mode's rows for every subject of the period. Zero bounds of iv
// default to the period bounds.
func (r *ReportService) Table(ctx context.Context, period core.Period, mode core.Mode, iv core.Interval) (core.Table, error) {
	resolved := ResolveInterval(period, iv)
	if err := resolved.Validate(); err != nil {
		return core.Table{}, err
	}

	subjects, err := r.subjects.ListSubjects(ctx, period.ID)
	if err != nil {
		return core.Table{}, err
	}

	rows, err := r.aggregator.Rows(ctx, mode, subjects, resolved)
	if err != nil {
		return core.Table{}, fmt.Errorf("%s rows: %w", mode, err)
	}

	r.logger.DebugContext(ctx, "Table built",
		log.FieldPeriodID, period.ID,
		log.FieldMode, string(mode),
		log.FieldFrom, resolved.From.StorageString(),
		log.FieldTo, resolved.To.StorageString(),
		log.FieldRows, len(rows))

	return core.Table{Mode: mode, Interval: resolved, Subjects: subjects, Rows: rows}, nil
}

// Tables builds every mode in order. Rows are computed one after another on the
// single store connection.
func (r *ReportService) Tables(ctx context.Context, period core.Period, iv core.Interval) ([]core.Table, error) {
	tables := make([]core.Table, 0, len(core.Modes()))
	for _, mode := range core.Modes() {
		t, err := r.Table(ctx, period, mode, iv)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// ResolveInterval fills open bounds of iv with the period bounds.
func ResolveInterval(period core.Period, iv core.Interval) core.Interval {
	out := iv
	if out.From.IsEmpty() {
		out.From = period.Start
	}
	if out.To.IsEmpty() {
		out.To = period.End
	}
	return out
}
