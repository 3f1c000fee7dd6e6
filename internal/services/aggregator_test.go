package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

func TestAggregator_SumAndAdditivity(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		ctx := context.Background()
		e := newEngine(store)
		p := mustPeriod(t, e, d(1, 1), d(3, 31), "Spring")
		math := mustSubject(t, e, p.ID, "math", "Mathematics")
		for i, m := range []int64{10, 0, 25, 40, 5, 0, 60} {
			mustSet(t, e, math.ID, d(1, 1).AddDays(i), m)
		}

		total, err := e.Aggregator.SumTotal(ctx, math.ID)
		if err != nil || total != 140 {
			t.Fatalf("sum total = %d %v", total, err)
		}
		left, _ := e.Aggregator.Sum(ctx, math.ID, core.Interval{To: d(1, 3)})
		right, _ := e.Aggregator.Sum(ctx, math.ID, core.Interval{From: d(1, 4)})
		if left+right != total {
			t.Fatalf("open-bounded halves %d + %d != %d", left, right, total)
		}

		a, c := d(1, 1), d(1, 7)
		whole, _ := e.Aggregator.Sum(ctx, math.ID, core.Interval{From: a, To: c})
		for b := a; b.Before(c); b = b.AddDays(1) {
			first, _ := e.Aggregator.Sum(ctx, math.ID, core.Interval{From: a, To: b})
			second, _ := e.Aggregator.Sum(ctx, math.ID, core.Interval{From: b.AddDays(1), To: c})
			if first+second != whole {
				t.Fatalf("split at %s: %d + %d != %d", b.StorageString(), first, second, whole)
			}
		}
	})
}

func TestAggregator_Rows(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		ctx := context.Background()
		e := newEngine(store)
		p := mustPeriod(t, e, d(1, 1), d(3, 31), "Spring")
		math := mustSubject(t, e, p.ID, "math", "Mathematics")
		phys := mustSubject(t, e, p.ID, "phys", "Physics")
		subjects := []core.Subject{math, phys}

		mustSet(t, e, math.ID, d(1, 1), 30)  // Wednesday
		mustSet(t, e, phys.ID, d(1, 5), 15)  // Sunday, same week
		mustSet(t, e, math.ID, d(1, 6), 45)  // Monday
		mustSet(t, e, math.ID, d(2, 3), 20)  // February
		mustSet(t, e, phys.ID, d(2, 10), 10) // outside the range below

		iv := core.Interval{From: d(1, 1), To: d(2, 5)}

		daily, err := e.Aggregator.DailyRows(ctx, subjects, iv)
		if err != nil {
			t.Fatalf("daily: %v", err)
		}
		if len(daily) != 36 {
			t.Fatalf("expected one row per day, got %d", len(daily))
		}
		if daily[0].Of(math.ID) != 30 || daily[4].Of(phys.ID) != 15 || daily[1].Total() != 0 {
			t.Fatalf("unexpected daily values: %+v %+v", daily[0], daily[4])
		}
		if _, ok := daily[1].Minutes[phys.ID]; !ok {
			t.Fatal("every subject needs a column on every row")
		}

		weekly, err := e.Aggregator.WeeklyRows(ctx, subjects, iv)
		if err != nil {
			t.Fatalf("weekly: %v", err)
		}
		// Weeks start 12-30, 01-06, 01-13, 01-20, 01-27, 02-03.
		if len(weekly) != 6 {
			t.Fatalf("expected 6 weekly rows, got %d", len(weekly))
		}
		first, last := weekly[0], weekly[len(weekly)-1]
		if !first.Interval.From.Equal(d(1, 1)) || !first.Interval.To.Equal(d(1, 5)) {
			t.Fatalf("first week must be clipped to the range: %s..%s",
				first.Interval.From.StorageString(), first.Interval.To.StorageString())
		}
		if first.Total() != 45 || weekly[1].Of(math.ID) != 45 {
			t.Fatalf("unexpected weekly totals: %d %d", first.Total(), weekly[1].Of(math.ID))
		}
		if !last.Interval.From.Equal(d(2, 3)) || !last.Interval.To.Equal(d(2, 5)) || last.Total() != 20 {
			t.Fatalf("last partial week lost: %+v", last)
		}

		monthly, err := e.Aggregator.MonthlyRows(ctx, subjects, iv)
		if err != nil {
			t.Fatalf("monthly: %v", err)
		}
		if len(monthly) != 2 || monthly[0].Total() != 90 || monthly[1].Total() != 20 {
			t.Fatalf("unexpected monthly rows: %+v", monthly)
		}
		if !monthly[1].Interval.To.Equal(d(2, 5)) {
			t.Fatalf("monthly sum range must be clipped, got %s", monthly[1].Interval.To.StorageString())
		}
	})
}

func TestAggregator_RowsRequireBoundedRange(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		e := newEngine(store)
		ctx := context.Background()
		if _, err := e.Aggregator.DailyRows(ctx, nil, core.Interval{From: d(1, 1)}); !errors.Is(err, core.ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for open range, got %v", err)
		}
		if _, err := e.Aggregator.WeeklyRows(ctx, nil, core.Interval{From: d(2, 1), To: d(1, 1)}); !errors.Is(err, core.ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for reversed range, got %v", err)
		}
	})
}

func TestAggregator_WeekStartIsConfigurable(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		e := NewEngine(store, time.Sunday, log.Discard())
		week := e.Aggregator.WeekOf(d(1, 1))
		if !week.From.Equal(core.NewDate(2024, 12, 29)) || !week.To.Equal(d(1, 4)) {
			t.Fatalf("unexpected sunday week: %s..%s", week.From.StorageString(), week.To.StorageString())
		}
	})
}

func TestAggregator_WeeklyAverage(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		ctx := context.Background()
		e := newEngine(store)
		// Three Monday-aligned weeks.
		p := mustPeriod(t, e, d(1, 6), d(1, 26), "Three weeks")
		math := mustSubject(t, e, p.ID, "math", "Mathematics")
		phys := mustSubject(t, e, p.ID, "phys", "Physics")

		mustSet(t, e, math.ID, d(1, 7), 40)
		mustSet(t, e, phys.ID, d(1, 8), 20)
		mustSet(t, e, math.ID, d(1, 14), 90)
		mustSet(t, e, math.ID, d(1, 21), 500) // current week, never counted

		avg, ok, err := e.Aggregator.WeeklyAverage(ctx, p, p.Start, d(1, 22))
		if err != nil || !ok {
			t.Fatalf("weekly average: %v ok=%v", err, ok)
		}
		if avg != 75.0 {
			t.Fatalf("average = %v, want 75", avg)
		}

		_, ok, err = e.Aggregator.WeeklyAverage(ctx, p, p.Start, d(1, 9))
		if err != nil || ok {
			t.Fatalf("no full week elapsed, expected no average: ok=%v err=%v", ok, err)
		}
	})
}

func TestAggregator_WeeklyAverageClipsFirstWeek(t *testing.T) {
	forEachStore(t, func(t *testing.T, store storage.Store) {
		ctx := context.Background()
		e := newEngine(store)
		p := mustPeriod(t, e, d(1, 1), d(1, 31), "January")
		math := mustSubject(t, e, p.ID, "math", "Mathematics")
		mustSet(t, e, math.ID, d(1, 2), 30)
		mustSet(t, e, math.ID, d(1, 8), 50)

		// Starting mid-week drops what was studied before from.
		avg, ok, err := e.Aggregator.WeeklyAverage(ctx, p, d(1, 3), d(1, 15))
		if err != nil || !ok {
			t.Fatalf("weekly average: %v ok=%v", err, ok)
		}
		if avg != 25.0 {
			t.Fatalf("average = %v, want 25", avg)
		}
	})
}
