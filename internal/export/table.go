package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"studyledger/internal/core"
)

// fileStampLayout is the timestamp appended to export file names.
const fileStampLayout = "20060102_150405"

// descriptionChars bounds the part of the period description used in file names.
const descriptionChars = 10

// Label renders the first column of a row: a date for daily rows, the clipped
// "start:end" range for weekly rows and mm-yyyy for monthly rows.
func Label(row core.Row, mode core.Mode, layout string) string {
	switch mode {
	case core.Weekly:
		return row.Interval.From.Format(layout) + ":" + row.Interval.To.Format(layout)
	case core.Monthly:
		return row.Interval.From.Format(core.MonthLayout)
	default:
		return row.Interval.From.Format(layout)
	}
}

// Header is "date" followed by every subject short name.
func Header(t core.Table) []string {
	header := make([]string, 0, len(t.Subjects)+1)
	header = append(header, "date")
	for _, s := range t.Subjects {
		header = append(header, s.ShortName)
	}
	return header
}

// Records renders every row as strings in header order.
func Records(t core.Table, layout string) [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make([]string, 0, len(t.Subjects)+1)
		rec = append(rec, Label(row, t.Mode, layout))
		for _, s := range t.Subjects {
			rec = append(rec, strconv.FormatInt(row.Of(s.ID), 10))
		}
		records = append(records, rec)
	}
	return records
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// FileName builds <mode>_<description prefix>_<YYYYMMDD_HHMMSS>.<ext>.
func FileName(mode string, description string, now time.Time, ext string) string {
	descr := []rune(strings.TrimSpace(description))
	if len(descr) > descriptionChars {
		descr = descr[:descriptionChars]
	}
	clean := strings.Trim(invalidFileRe.ReplaceAllString(string(descr), "_"), "_")
	if clean == "" {
		return fmt.Sprintf("%s_%s.%s", mode, now.Format(fileStampLayout), ext)
	}
	return fmt.Sprintf("%s_%s_%s.%s", mode, clean, now.Format(fileStampLayout), ext)
}
