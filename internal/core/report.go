package core

import "fmt"

// Mode selects the bucket size of an aggregation table.
type Mode string

const (
	Daily   Mode = "daily"
	Weekly  Mode = "weekly"
	Monthly Mode = "monthly"
)

// Modes lists every table mode in export order.
func Modes() []Mode {
	return []Mode{Daily, Weekly, Monthly}
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Daily, Weekly, Monthly:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be daily, weekly or monthly", s)
	}
}

type (
	// Row is one bucket of a table. Interval is already clipped to the requested range.
	Row struct {
		Interval Interval
		Minutes  map[int64]int64 // by subject id, absent means zero
	}

	// Table holds one column per subject and one row per bucket.
	Table struct {
		Mode     Mode
		Interval Interval
		Subjects []Subject
		Rows     []Row
	}

	SubjectMinutes struct {
		Subject Subject
		Minutes int64
	}

	// Summary is the time studied over one interval.
	Summary struct {
		Interval  Interval
		Total     int64
		BySubject []SubjectMinutes
	}

	// Status is the day and week report for one date of a period.
	Status struct {
		Period        Period
		Date          Date
		DaysElapsed   int
		DaysRemaining int

		Day  Summary
		Week Summary

		// Set only when the previous week overlaps the period.
		PreviousWeek *Summary
		VsLastWeek   *Comparison

		// Set only when at least one full week precedes the current one.
		Average   *float64
		VsAverage *Comparison
	}
)

func (r Row) Total() int64 {
	var total int64
	for _, m := range r.Minutes {
		total += m
	}
	return total
}

// Of returns the minutes of one subject in the row.
func (r Row) Of(subjectID int64) int64 {
	return r.Minutes[subjectID]
}

type ComparisonKind int

const (
	Less ComparisonKind = iota
	Same
	More
	// Better means the reference was zero and the current value is not.
	Better
)

func (k ComparisonKind) String() string {
	switch k {
	case Less:
		return "less"
	case Same:
		return "same"
	case More:
		return "more"
	case Better:
		return "better"
	default:
		return "unknown"
	}
}

// Comparison relates a current total to a reference total.
type Comparison struct {
	Kind    ComparisonKind
	Percent float64 // zero for Same and Better
}

// Compare computes current/reference and classifies it. A zero reference never divides.
func Compare(current, reference float64) Comparison {
	if reference == 0 {
		if current > 0 {
			return Comparison{Kind: Better}
		}
		return Comparison{Kind: Same}
	}
	ratio := current / reference
	switch {
	case ratio < 1:
		return Comparison{Kind: Less, Percent: (1 - ratio) * 100}
	case ratio > 1:
		return Comparison{Kind: More, Percent: (ratio - 1) * 100}
	default:
		return Comparison{Kind: Same}
	}
}
