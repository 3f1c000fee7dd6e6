package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"studyledger/internal/core"
	"studyledger/internal/services"
)

func (a *App) runPlan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &UsageError{Msg: "missing plan subcommand", Usage: usagePlan}
	}
	switch args[0] {
	case "start":
		return a.planStart(ctx, args[1:])
	case "list":
		return a.planList(ctx, args[1:])
	case "modify":
		return a.planModify(ctx, args[1:])
	case "remove":
		return a.planRemove(ctx, args[1:])
	default:
		return usageErr(usagePlan, "unknown plan subcommand %q", args[0])
	}
}

// planStart accepts "<end> <description>" starting today, or "<start> <end> <description>".
func (a *App) planStart(ctx context.Context, args []string) error {
	fs := newFlagSet("plan start")
	pos, err := parseArgs(fs, usagePlan, args)
	if err != nil {
		return err
	}

	start := a.Today()
	var endArg, description string
	switch len(pos) {
	case 2:
		endArg, description = pos[0], pos[1]
	case 3:
		if start, err = a.parseDate(usagePlan, pos[0]); err != nil {
			return err
		}
		endArg, description = pos[1], pos[2]
	default:
		return usageErr(usagePlan, "plan start expects [<start>] <end> <description>")
	}
	end, err := a.parseDate(usagePlan, endArg)
	if err != nil {
		return err
	}

	p, err := a.Engine.Periods.Create(ctx, start, end, description)
	if err != nil {
		return err
	}
	a.printf("Plan %d created: %s\n", p.ID, a.describePeriod(p))
	return nil
}

func (a *App) planList(ctx context.Context, args []string) error {
	fs := newFlagSet("plan list")
	if _, err := parseArgs(fs, usagePlan, args); err != nil {
		return err
	}
	periods, err := a.Engine.Periods.List(ctx)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		a.printf("No plans yet.\n")
		return nil
	}

	today := a.Today()
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tSTART\tEND\tDESCRIPTION")
	for _, p := range periods {
		current := ""
		if p.Covers(today) {
			current = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", current, p.ID, a.formatDate(p.Start), a.formatDate(p.End), p.Description)
	}
	return tw.Flush()
}

func (a *App) planModify(ctx context.Context, args []string) error {
	fs := newFlagSet("plan modify")
	plan := fs.Int64("plan", 0, "plan id")
	start := a.newDateFlag(fs, "start", "new start date")
	end := a.newDateFlag(fs, "end", "new end date")
	var description optionalString
	fs.Var(&description, "description", "new description")
	pos, err := parseArgs(fs, usagePlan, args)
	if err != nil {
		return err
	}
	if len(pos) > 0 {
		return usageErr(usagePlan, "unexpected argument %q", pos[0])
	}

	change := services.PeriodChange{Description: description.ptr()}
	if start.set {
		change.Start = &start.date
	}
	if end.set {
		change.End = &end.date
	}
	if change.Start == nil && change.End == nil && change.Description == nil {
		return usageErr(usagePlan, "plan modify needs at least one of --start, --end, --description")
	}

	target, err := a.period(ctx, *plan, a.Today())
	if err != nil {
		return err
	}
	p, err := a.Engine.Periods.Modify(ctx, target.ID, change)
	if err != nil {
		return err
	}
	a.printf("Plan %d updated: %s\n", p.ID, a.describePeriod(p))
	return nil
}

func (a *App) planRemove(ctx context.Context, args []string) error {
	fs := newFlagSet("plan remove")
	confirmed := fs.Bool("confirm", false, "skip the confirmation prompt")
	pos, err := parseArgs(fs, usagePlan, args)
	if err != nil {
		return err
	}

	var id int64
	switch len(pos) {
	case 0:
	case 1:
		if id, err = parseID(usagePlan, pos[0]); err != nil {
			return err
		}
	default:
		return usageErr(usagePlan, "plan remove expects at most one id")
	}

	target, err := a.period(ctx, id, a.Today())
	if err != nil {
		return err
	}
	if !*confirmed {
		ok, err := a.confirm(fmt.Sprintf("Remove plan %d (%s) with all its subjects and entries?", target.ID, target.Description))
		if err != nil {
			return err
		}
		if !ok {
			a.printf("Aborted.\n")
			return nil
		}
	}
	if err := a.Engine.Periods.Remove(ctx, target.ID); err != nil {
		return err
	}
	a.printf("Plan %d removed.\n", target.ID)
	return nil
}

func (a *App) describePeriod(p core.Period) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s", a.formatDate(p.Start), a.formatDate(p.End))
	if p.Description != "" {
		fmt.Fprintf(&b, " %q", p.Description)
	}
	return b.String()
}
