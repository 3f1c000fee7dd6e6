package core

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodValidate(t *testing.T) {
	cases := []struct {
		p  Period
		ok bool
	}{
		{Period{Start: NewDate(2025, 1, 1), End: NewDate(2025, 3, 31)}, true},
		{Period{Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 1)}, true},
		{Period{Start: NewDate(2025, 2, 1), End: NewDate(2025, 1, 1)}, false},
		{Period{Start: Date{Time: time.Time{}}, End: NewDate(2025, 1, 1)}, false}, // zero start
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("case %d expected ErrInvalidRange, got %v", i, err)
		}
	}
}

func TestOverlaps(t *testing.T) {
	iv := func(m0, d0, m1, d1 int) Interval {
		return Interval{From: NewDate(2025, m0, d0), To: NewDate(2025, m1, d1)}
	}

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(1, 1, 1, 9), iv(1, 10, 1, 20), false},
		{"touching endpoint", iv(1, 1, 1, 10), iv(1, 10, 1, 20), true},
		{"contained", iv(1, 5, 1, 6), iv(1, 1, 1, 20), true},
		{"containing", iv(1, 1, 1, 20), iv(1, 5, 1, 6), true},
		{"partial left", iv(1, 1, 1, 12), iv(1, 10, 1, 20), true},
		{"identical", iv(1, 1, 1, 1), iv(1, 1, 1, 1), true},
		{"single day apart", iv(1, 1, 1, 1), iv(1, 2, 1, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v", got, tt.want)
			}
			// Equivalent to the standard intersection test.
			std := !tt.a.From.After(tt.b.To) && !tt.b.From.After(tt.a.To)
			if std != tt.want {
				t.Errorf("standard test = %v, want %v", std, tt.want)
			}
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	d := NewDate(2025, 1, 1)
	if got := d.StartOfWeek(time.Monday); !got.Equal(NewDate(2024, 12, 30)) {
		t.Fatalf("monday start = %s", got.StorageString())
	}
	if got := d.StartOfWeek(time.Sunday); !got.Equal(NewDate(2024, 12, 29)) {
		t.Fatalf("sunday start = %s", got.StorageString())
	}
	if got := d.EndOfWeek(time.Monday); !got.Equal(NewDate(2025, 1, 5)) {
		t.Fatalf("monday end = %s", got.StorageString())
	}
	monday := NewDate(2025, 1, 6)
	if got := monday.StartOfWeek(time.Monday); !got.Equal(monday) {
		t.Fatalf("a monday is its own week start, got %s", got.StorageString())
	}
}

func TestMonthBounds(t *testing.T) {
	d := NewDate(2024, 2, 17)
	if got := d.StartOfMonth(); !got.Equal(NewDate(2024, 2, 1)) {
		t.Fatalf("start of month = %s", got.StorageString())
	}
	if got := d.EndOfMonth(); !got.Equal(NewDate(2024, 2, 29)) {
		t.Fatalf("end of month = %s", got.StorageString())
	}
	if got := NewDate(2025, 12, 5).EndOfMonth(); !got.Equal(NewDate(2025, 12, 31)) {
		t.Fatalf("end of december = %s", got.StorageString())
	}
}

func TestIntervalContainsAndClip(t *testing.T) {
	iv := Interval{From: NewDate(2025, 1, 10), To: NewDate(2025, 1, 20)}
	if !iv.Contains(NewDate(2025, 1, 10)) || !iv.Contains(NewDate(2025, 1, 20)) {
		t.Fatal("bounds must be inclusive")
	}
	if iv.Contains(NewDate(2025, 1, 21)) {
		t.Fatal("day after end must be outside")
	}
	if !Unbounded().Contains(NewDate(1990, 5, 5)) {
		t.Fatal("unbounded interval must contain every day")
	}

	clipped := Interval{From: NewDate(2025, 1, 1), To: NewDate(2025, 1, 15)}.Clip(iv)
	if !clipped.From.Equal(NewDate(2025, 1, 10)) || !clipped.To.Equal(NewDate(2025, 1, 15)) {
		t.Fatalf("unexpected clip: %s..%s", clipped.From.StorageString(), clipped.To.StorageString())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(DefaultDateLayout, "03-31-2025")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !d.Equal(NewDate(2025, 3, 31)) {
		t.Fatalf("got %s", d.StorageString())
	}
	if _, err := ParseDate(DefaultDateLayout, "2025-03-31"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
	back, err := ParseStorageDate(d.StorageString())
	if err != nil || !back.Equal(d) {
		t.Fatalf("storage round trip: %v %v", back, err)
	}
}

func TestValidateShortName(t *testing.T) {
	for _, bad := range []string{"", "  ", "12", "-3"} {
		if err := ValidateShortName(bad); !errors.Is(err, ErrInvalidShortName) {
			t.Errorf("ValidateShortName(%q) = %v, want ErrInvalidShortName", bad, err)
		}
	}
	for _, good := range []string{"math", "m1", "1a"} {
		if err := ValidateShortName(good); err != nil {
			t.Errorf("ValidateShortName(%q) = %v", good, err)
		}
	}
}

func TestErrorMatching(t *testing.T) {
	var err error = &OverlapError{Conflict: Period{ID: 3}}
	if !errors.Is(err, ErrOverlap) {
		t.Fatal("OverlapError must match ErrOverlap")
	}
	err = &InsufficientTimeError{Current: 30, Requested: 50}
	if !errors.Is(err, ErrInsufficientTime) {
		t.Fatal("InsufficientTimeError must match ErrInsufficientTime")
	}
	cause := errors.New("disk I/O error")
	err = NewStoreError("insert entry", cause)
	if !errors.Is(err, ErrStore) || !errors.Is(err, cause) {
		t.Fatal("StoreError must match ErrStore and its cause")
	}
	if NewStoreError("noop", nil) != nil {
		t.Fatal("nil cause must produce nil error")
	}
}
