package core

import (
	"math"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name               string
		current, reference float64
		wantKind           ComparisonKind
		wantPercent        float64
	}{
		{"half", 30, 60, Less, 50},
		{"equal", 45, 45, Same, 0},
		{"double", 120, 60, More, 100},
		{"from nothing", 10, 0, Better, 0},
		{"both zero", 0, 0, Same, 0},
		{"nothing now", 0, 90, Less, 100},
		{"against average", 100, 75, More, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.current, tt.reference)
			if got.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if math.Abs(got.Percent-tt.wantPercent) > 1e-9 {
				t.Fatalf("percent = %v, want %v", got.Percent, tt.wantPercent)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v %v", m, got, err)
		}
	}
	if _, err := ParseMode("yearly"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestRowTotal(t *testing.T) {
	r := Row{Minutes: map[int64]int64{1: 30, 2: 45}}
	if r.Total() != 75 || r.Of(1) != 30 || r.Of(3) != 0 {
		t.Fatalf("unexpected row sums: total=%d", r.Total())
	}
}
