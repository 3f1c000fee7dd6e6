package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"studyledger/internal/core"
)

func sampleTable(mode core.Mode) core.Table {
	math := core.Subject{ID: 1, ShortName: "math"}
	phys := core.Subject{ID: 2, ShortName: "phys"}
	from, to := core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 5)
	return core.Table{
		Mode:     mode,
		Interval: core.Interval{From: from, To: to},
		Subjects: []core.Subject{math, phys},
		Rows: []core.Row{
			{Interval: core.Interval{From: from, To: to}, Minutes: map[int64]int64{1: 30, 2: 0}},
			{Interval: core.Interval{From: core.NewDate(2025, 1, 6), To: core.NewDate(2025, 1, 12)}, Minutes: map[int64]int64{1: 45, 2: 15}},
		},
	}
}

func TestLabel(t *testing.T) {
	row := core.Row{Interval: core.Interval{From: core.NewDate(2025, 2, 3), To: core.NewDate(2025, 2, 9)}}
	tests := []struct {
		mode core.Mode
		want string
	}{
		{core.Daily, "02-03-2025"},
		{core.Weekly, "02-03-2025:02-09-2025"},
		{core.Monthly, "02-2025"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := Label(row, tt.mode, core.DefaultDateLayout); got != tt.want {
				t.Fatalf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 4, 15, 6, 7, 0, time.UTC)
	tests := []struct {
		name  string
		descr string
		want  string
	}{
		{"short", "Spring", "daily_Spring_20250304_150607.csv"},
		{"truncated", "Spring semester 2025", "daily_Spring_sem_20250304_150607.csv"},
		{"unsafe characters", "a/b:c", "daily_a_b_c_20250304_150607.csv"},
		{"empty", "", "daily_20250304_150607.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName("daily", tt.descr, now, "csv"); got != tt.want {
				t.Fatalf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable(core.Weekly), core.DefaultDateLayout); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "date,math,phys\n" +
		"01-01-2025:01-05-2025,30,0\n" +
		"01-06-2025:01-12-2025,45,15\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestWriteCSVWithoutRows(t *testing.T) {
	var buf bytes.Buffer
	table := core.Table{Mode: core.Daily}
	if err := WriteCSV(&buf, table, core.DefaultDateLayout); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.String() != "date\n" {
		t.Fatalf("expected bare header, got %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	tables := []core.Table{sampleTable(core.Daily), sampleTable(core.Weekly)}
	if err := WriteXLSX(&buf, tables, core.DefaultDateLayout); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "daily" || sheets[1] != "weekly" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	rows, err := f.GetRows("weekly")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 || strings.Join(rows[0], ",") != "date,math,phys" {
		t.Fatalf("unexpected header: %v", rows)
	}
	if rows[2][0] != "01-06-2025:01-12-2025" || rows[2][1] != "45" || rows[2][2] != "15" {
		t.Fatalf("unexpected row: %v", rows[2])
	}
}

func TestExporterWriteCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := NewExporter(dir, core.DefaultDateLayout, CSV, nil)
	e.Now = func() time.Time { return time.Date(2025, 3, 4, 15, 6, 7, 0, time.UTC) }

	tables := []core.Table{sampleTable(core.Daily), sampleTable(core.Weekly), sampleTable(core.Monthly)}
	paths, err := e.Write(context.Background(), "Spring", tables)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected three files, got %v", paths)
	}
	for i, mode := range []string{"daily", "weekly", "monthly"} {
		if filepath.Base(paths[i]) != mode+"_Spring_20250304_150607.csv" {
			t.Fatalf("unexpected path %s", paths[i])
		}
		data, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatalf("read %s: %v", paths[i], err)
		}
		if !strings.HasPrefix(string(data), "date,math,phys\n") {
			t.Fatalf("%s missing header: %q", mode, data)
		}
	}
	monthly, _ := os.ReadFile(paths[2])
	if !strings.Contains(string(monthly), "\n01-2025,30,0\n") {
		t.Fatalf("monthly label not mm-yyyy: %q", monthly)
	}
}

func TestExporterWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, core.DefaultDateLayout, XLSX, nil)
	e.Now = func() time.Time { return time.Date(2025, 3, 4, 15, 6, 7, 0, time.UTC) }

	paths, err := e.Write(context.Background(), "Spring", []core.Table{sampleTable(core.Daily), sampleTable(core.Monthly)})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "all_Spring_20250304_150607.xlsx" {
		t.Fatalf("unexpected paths: %v", paths)
	}
	f, err := excelize.OpenFile(paths[0])
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 2 {
		t.Fatalf("unexpected sheets: %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("xlsx"); err != nil || f != XLSX {
		t.Fatalf("ParseFormat(xlsx) = %v %v", f, err)
	}
	if f, err := ParseFormat("ics"); err != nil || f != ICS {
		t.Fatalf("ParseFormat(ics) = %v %v", f, err)
	}
	if _, err := ParseFormat("ods"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	if err := WriteICS(&buf, sampleTable(core.Weekly), stamp); err != nil {
		t.Fatalf("write ics: %v", err)
	}

	cal, err := ics.ParseCalendar(&buf)
	if err != nil {
		t.Fatalf("parse calendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("expected one event per non-empty cell, got %d", len(events))
	}

	first := events[0]
	if got := first.GetProperty(ics.ComponentPropertySummary).Value; got != "math: 30m" {
		t.Errorf("summary = %q", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20250101" {
		t.Errorf("dtstart = %q", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20250106" {
		t.Errorf("dtend must be the day after the bucket, got %q", got)
	}
	if got := events[2].GetProperty(ics.ComponentPropertySummary).Value; got != "phys: 15m" {
		t.Errorf("summary = %q", got)
	}
}

func TestExporterICS(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, core.DefaultDateLayout, ICS, nil)
	e.Now = func() time.Time { return time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC) }

	paths, err := e.Write(context.Background(), "Spring", []core.Table{sampleTable(core.Daily), sampleTable(core.Weekly)})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected one calendar per table, got %v", paths)
	}
	if want := filepath.Join(dir, "weekly_Spring_20250115_093000.ics"); paths[1] != want {
		t.Fatalf("path = %s, want %s", paths[1], want)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "BEGIN:VCALENDAR") {
		t.Fatalf("not a calendar: %q", data)
	}
}

func TestFormatMinutes(t *testing.T) {
	for in, want := range map[int64]string{0: "0m", 45: "45m", 60: "1h 00m", 125: "2h 05m"} {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
