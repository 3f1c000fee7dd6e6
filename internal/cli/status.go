package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"studyledger/internal/core"
	"studyledger/internal/export"
)

func (a *App) runStatus(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	plan := fs.Int64("plan", 0, "plan id")
	pos, err := parseArgs(fs, usageStatus, args)
	if err != nil {
		return err
	}

	date := a.Today()
	switch len(pos) {
	case 0:
	case 1:
		if date, err = a.parseDate(usageStatus, pos[0]); err != nil {
			return err
		}
	default:
		return usageErr(usageStatus, "status expects at most one <date>")
	}

	p, err := a.period(ctx, *plan, date)
	if err != nil {
		return err
	}
	st, err := a.Engine.Reports.Status(ctx, p, date)
	if err != nil {
		return err
	}
	return a.renderStatus(a.Out, st)
}

func (a *App) renderStatus(w io.Writer, st core.Status) error {
	fmt.Fprintf(w, "Plan %d: %s\n", st.Period.ID, a.describePeriod(st.Period))
	fmt.Fprintf(w, "%d days elapsed, %d days remaining\n\n", st.DaysElapsed, st.DaysRemaining)

	day := "Today"
	if !st.Date.Equal(a.Today()) {
		day = a.formatDate(st.Date)
	}
	fmt.Fprintf(w, "%s: %s\n", day, export.FormatMinutes(st.Day.Total))
	if err := writeBreakdown(w, st.Day); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nThis week (%s - %s): %s\n",
		a.formatDate(st.Week.Interval.From), a.formatDate(st.Week.Interval.To), export.FormatMinutes(st.Week.Total))
	if err := writeBreakdown(w, st.Week); err != nil {
		return err
	}

	if st.PreviousWeek != nil && st.VsLastWeek != nil {
		fmt.Fprintf(w, "\nLast week: %s\n", export.FormatMinutes(st.PreviousWeek.Total))
		fmt.Fprintln(w, describeComparison(*st.VsLastWeek, "last week"))
	}
	if st.Average != nil && st.VsAverage != nil {
		fmt.Fprintf(w, "Weekly average: %s\n", export.FormatMinutes(int64(*st.Average+0.5)))
		if st.VsAverage.Kind != core.Same {
			fmt.Fprintln(w, describeComparison(*st.VsAverage, "average"))
		}
	}
	return nil
}

func writeBreakdown(w io.Writer, s core.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sm := range s.BySubject {
		if sm.Minutes == 0 {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", sm.Subject.ShortName, sm.Subject.Name, export.FormatMinutes(sm.Minutes))
	}
	return tw.Flush()
}

func describeComparison(c core.Comparison, reference string) string {
	switch c.Kind {
	case core.Less:
		return fmt.Sprintf("%.2f%% less than %s", c.Percent, reference)
	case core.More:
		return fmt.Sprintf("%.2f%% more than %s", c.Percent, reference)
	case core.Better:
		return "Definitely better than " + reference
	default:
		return "Same as " + reference
	}
}
