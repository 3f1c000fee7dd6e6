package cli

import (
	"context"
	"fmt"

	"studyledger/internal/core"
	"studyledger/internal/export"
)

type ledgerOp func(ctx context.Context, subjectID int64, d core.Date, minutes int64) (int64, error)

func (a *App) runAdd(ctx context.Context, args []string) error {
	return a.runEntry(ctx, "add", args, a.Engine.Ledger.Add, "Entry added successfully")
}

// runSubtract refuses to remove more than the cell holds.
func (a *App) runSubtract(ctx context.Context, args []string) error {
	return a.runEntry(ctx, "subtract", args, a.Engine.Ledger.SubtractStrict, "Time subtracted successfully")
}

func (a *App) runSet(ctx context.Context, args []string) error {
	return a.runEntry(ctx, "set", args, a.Engine.Ledger.Set, "Entry set successfully")
}

// runEntry parses "[<date>] <subject> <minutes>" and applies op to the cell.
func (a *App) runEntry(ctx context.Context, name string, args []string, op ledgerOp, done string) error {
	fs := newFlagSet(name)
	plan := fs.Int64("plan", 0, "plan id")
	pos, err := parseArgs(fs, usageEntry, args)
	if err != nil {
		return err
	}

	date := a.Today()
	switch len(pos) {
	case 2:
	case 3:
		if date, err = a.parseDate(usageEntry, pos[0]); err != nil {
			return err
		}
		pos = pos[1:]
	default:
		return usageErr(usageEntry, "%s expects [<date>] <subject> <minutes>", name)
	}
	minutes, err := parseMinutes(usageEntry, pos[1])
	if err != nil {
		return err
	}

	p, err := a.period(ctx, *plan, date)
	if err != nil {
		return err
	}
	if !p.Covers(date) {
		return fmt.Errorf("%s is outside plan %d (%s - %s): %w",
			a.formatDate(date), p.ID, a.formatDate(p.Start), a.formatDate(p.End), core.ErrInvalidRange)
	}
	s, err := a.Engine.Subjects.Resolve(ctx, pos[0], p.ID)
	if err != nil {
		return fmt.Errorf("subject %q: %w", pos[0], err)
	}
	if s.PeriodID != p.ID {
		return fmt.Errorf("subject %s belongs to plan %d, not plan %d: %w", s.ShortName, s.PeriodID, p.ID, core.ErrNotFound)
	}

	amount, err := op(ctx, s.ID, date, minutes)
	if err != nil {
		return err
	}
	a.printf("%s. Current amount: %s\n", done, export.FormatMinutes(amount))
	return nil
}
