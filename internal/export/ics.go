package export

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"studyledger/internal/core"
)

const productID = "-//studyledger//study time//EN"

// WriteICS writes one all-day event per subject and bucket with recorded time.
// Buckets with no time produce no event.
func WriteICS(w io.Writer, t core.Table, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, row := range t.Rows {
		for _, s := range t.Subjects {
			minutes := row.Of(s.ID)
			if minutes == 0 {
				continue
			}
			uid := fmt.Sprintf("%s-%d-%s@studyledger", t.Mode, s.ID, row.Interval.From.StorageString())
			event := cal.AddEvent(uid)
			event.SetDtStampTime(stamp)
			event.SetAllDayStartAt(row.Interval.From.Time)
			// DTEND of an all-day event is exclusive.
			event.SetAllDayEndAt(row.Interval.To.AddDays(1).Time)
			event.SetSummary(fmt.Sprintf("%s: %s", s.ShortName, FormatMinutes(minutes)))
			event.SetDescription(s.Name)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write %s calendar: %w", t.Mode, err)
	}
	return nil
}

// FormatMinutes renders minutes as "1h 05m", or "45m" below one hour.
func FormatMinutes(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
