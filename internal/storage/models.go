package storage

import (
	"database/sql"
	"fmt"

	"studyledger/internal/core"
)

// Row types mirror the tables one to one.
type (
	Period struct {
		ID          int64
		StartDate   string
		EndDate     string
		Description string
	}

	Subject struct {
		ID         int64
		PeriodID   int64
		ShortName  string
		Name       string
		FinalScore sql.NullFloat64
	}

	Entry struct {
		ID            int64
		Date          string
		SubjectID     int64
		DedicatedTime int64
	}
)

// Open bounds are replaced by sentinels that sort before and after every stored date.
const (
	lowestDate  = "0000-01-01"
	highestDate = "9999-12-31"
)

func bounds(iv core.Interval) (string, string) {
	from, to := lowestDate, highestDate
	if !iv.From.IsEmpty() {
		from = iv.From.StorageString()
	}
	if !iv.To.IsEmpty() {
		to = iv.To.StorageString()
	}
	return from, to
}

func (p Period) toCore() (core.Period, error) {
	start, err := core.ParseStorageDate(p.StartDate)
	if err != nil {
		return core.Period{}, fmt.Errorf("period %d start date %q: %w", p.ID, p.StartDate, err)
	}
	end, err := core.ParseStorageDate(p.EndDate)
	if err != nil {
		return core.Period{}, fmt.Errorf("period %d end date %q: %w", p.ID, p.EndDate, err)
	}
	return core.Period{ID: p.ID, Start: start, End: end, Description: p.Description}, nil
}

func (s Subject) toCore() core.Subject {
	out := core.Subject{ID: s.ID, PeriodID: s.PeriodID, ShortName: s.ShortName, Name: s.Name}
	if s.FinalScore.Valid {
		score := s.FinalScore.Float64
		out.FinalScore = &score
	}
	return out
}

func (e Entry) toCore() (core.Entry, error) {
	d, err := core.ParseStorageDate(e.Date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry %d date %q: %w", e.ID, e.Date, err)
	}
	return core.Entry{ID: e.ID, Date: d, SubjectID: e.SubjectID, DedicatedTime: e.DedicatedTime}, nil
}

func nullScore(score *float64) sql.NullFloat64 {
	if score == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *score, Valid: true}
}
