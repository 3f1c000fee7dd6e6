package core

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayout mirrors the mm-dd-yyyy format used on the command line.
const DefaultDateLayout = "01-02-2006"

// MonthLayout labels monthly buckets as mm-yyyy.
const MonthLayout = "01-2006"

// storageLayout is the on-disk representation; lexical order equals date order.
const storageLayout = "2006-01-02"

type (
	// Date is a calendar day. The embedded time is always UTC midnight.
	Date struct {
		time.Time
	}

	// Interval is a closed range of days. A zero bound is unbounded on that side.
	Interval struct {
		From Date
		To   Date
	}

	// Period is a study plan (a semester or similar) owning a set of subjects.
	Period struct {
		ID          int64
		Start       Date
		End         Date
		Description string
	}

	// Subject is a topic of study scoped to exactly one period.
	Subject struct {
		ID         int64
		PeriodID   int64
		ShortName  string
		Name       string
		FinalScore *float64 // nil until marked
	}

	// Entry records the minutes dedicated to one subject on one day.
	Entry struct {
		ID            int64
		Date          Date
		SubjectID     int64
		DedicatedTime int64
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses s with a Go layout string.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// ParseStorageDate parses the persisted YYYY-MM-DD form.
func ParseStorageDate(s string) (Date, error) {
	return ParseDate(storageLayout, s)
}

// StorageString returns the persisted YYYY-MM-DD form.
func (d Date) StorageString() string {
	return d.Time.Format(storageLayout)
}

// IsEmpty returns true if the date is zero (an unbounded interval side)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// StartOfWeek returns the first day of the week containing d.
func (d Date) StartOfWeek(weekStart time.Weekday) Date {
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the last day of the week containing d.
func (d Date) EndOfWeek(weekStart time.Weekday) Date {
	return d.StartOfWeek(weekStart).AddDays(6)
}

func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), int(d.Month())+1, 0)
}

// DaysBetween returns the number of days from a to b (negative when b is before a).
func DaysBetween(a, b Date) int {
	return int(b.Sub(a.Time).Hours() / 24)
}

func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

// Unbounded matches every day.
func Unbounded() Interval {
	return Interval{}
}

// Contains reports whether d falls inside the closed interval.
func (i Interval) Contains(d Date) bool {
	if !i.From.IsEmpty() && d.Before(i.From) {
		return false
	}
	if !i.To.IsEmpty() && d.After(i.To) {
		return false
	}
	return true
}

// Clip narrows i to the bounds of o.
func (i Interval) Clip(o Interval) Interval {
	out := i
	if !o.From.IsEmpty() && (out.From.IsEmpty() || out.From.Before(o.From)) {
		out.From = o.From
	}
	if !o.To.IsEmpty() && (out.To.IsEmpty() || out.To.After(o.To)) {
		out.To = o.To
	}
	return out
}

func (i Interval) Validate() error {
	if !i.From.IsEmpty() && !i.To.IsEmpty() && i.From.After(i.To) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether two closed intervals share at least one day.
// Both intervals must be bounded. Touching endpoints overlap.
func Overlaps(a, b Interval) bool {
	a0, a1, b0, b1 := a.From, a.To, b.From, b.To
	return (!a0.After(b1) && !a0.Before(b0)) ||
		(!a1.After(b1) && !a1.Before(b0)) ||
		(!a0.After(b0) && !a1.Before(b0))
}

func (p Period) Interval() Interval {
	return Interval{From: p.Start, To: p.End}
}

// Covers reports whether d is inside the period.
func (p Period) Covers(d Date) bool {
	return p.Interval().Contains(d)
}

func (p Period) Validate() error {
	if p.Start.IsEmpty() || p.End.IsEmpty() {
		return ErrInvalidRange
	}
	if p.Start.After(p.End) {
		return ErrInvalidRange
	}
	return nil
}

// IsIntegerToken reports whether s would be read as a subject id.
func IsIntegerToken(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// ValidateShortName rejects empty names and names reserved for id lookup.
func ValidateShortName(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrInvalidShortName
	}
	if IsIntegerToken(s) {
		return ErrInvalidShortName
	}
	return nil
}

func (s Subject) Marked() bool {
	return s.FinalScore != nil
}
