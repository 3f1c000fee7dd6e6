package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"studyledger/internal/export"
	"studyledger/internal/services"
)

func (a *App) runSubject(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &UsageError{Msg: "missing subject subcommand", Usage: usageSubject}
	}
	switch args[0] {
	case "add":
		return a.subjectAdd(ctx, args[1:])
	case "list":
		return a.subjectList(ctx, args[1:])
	case "modify":
		return a.subjectModify(ctx, args[1:])
	case "remove":
		return a.subjectRemove(ctx, args[1:])
	case "mark":
		return a.subjectMark(ctx, args[1:], true)
	case "unmark":
		return a.subjectMark(ctx, args[1:], false)
	default:
		return usageErr(usageSubject, "unknown subject subcommand %q", args[0])
	}
}

func (a *App) subjectAdd(ctx context.Context, args []string) error {
	fs := newFlagSet("subject add")
	plan := fs.Int64("plan", 0, "plan id")
	pos, err := parseArgs(fs, usageSubject, args)
	if err != nil {
		return err
	}
	if len(pos) < 2 {
		return usageErr(usageSubject, "subject add expects <short_name> <name>")
	}

	p, err := a.period(ctx, *plan, a.Today())
	if err != nil {
		return err
	}
	s, err := a.Engine.Subjects.Add(ctx, p.ID, pos[0], strings.Join(pos[1:], " "))
	if err != nil {
		return err
	}
	a.printf("Subject %d (%s) added to plan %d.\n", s.ID, s.ShortName, p.ID)
	return nil
}

func (a *App) subjectList(ctx context.Context, args []string) error {
	fs := newFlagSet("subject list")
	plan := fs.Int64("plan", 0, "plan id")
	if _, err := parseArgs(fs, usageSubject, args); err != nil {
		return err
	}

	p, err := a.period(ctx, *plan, a.Today())
	if err != nil {
		return err
	}
	subjects, err := a.Engine.Subjects.List(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		a.printf("No subjects in plan %d.\n", p.ID)
		return nil
	}

	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSHORT\tNAME\tTOTAL\tSCORE")
	for _, s := range subjects {
		total, err := a.Engine.Aggregator.SumTotal(ctx, s.ID)
		if err != nil {
			return err
		}
		score := "-"
		if s.FinalScore != nil {
			score = strconv.FormatFloat(*s.FinalScore, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.ShortName, s.Name, export.FormatMinutes(total), score)
	}
	return tw.Flush()
}

func (a *App) subjectModify(ctx context.Context, args []string) error {
	fs := newFlagSet("subject modify")
	plan := fs.Int64("plan", 0, "plan id")
	var shortName, name optionalString
	fs.Var(&shortName, "short-name", "new short name")
	fs.Var(&name, "name", "new name")
	pos, err := parseArgs(fs, usageSubject, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageErr(usageSubject, "subject modify expects one <subject>")
	}
	change := services.SubjectChange{ShortName: shortName.ptr(), Name: name.ptr()}
	if change.ShortName == nil && change.Name == nil {
		return usageErr(usageSubject, "subject modify needs --short-name or --name")
	}

	target, err := a.resolveSubject(ctx, pos[0], *plan)
	if err != nil {
		return err
	}
	s, err := a.Engine.Subjects.Modify(ctx, target.ID, change)
	if err != nil {
		return err
	}
	a.printf("Subject %d updated: %s (%s)\n", s.ID, s.ShortName, s.Name)
	return nil
}

func (a *App) subjectRemove(ctx context.Context, args []string) error {
	fs := newFlagSet("subject remove")
	plan := fs.Int64("plan", 0, "plan id")
	confirmed := fs.Bool("confirm", false, "skip the confirmation prompt")
	pos, err := parseArgs(fs, usageSubject, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageErr(usageSubject, "subject remove expects one <subject>")
	}

	target, err := a.resolveSubject(ctx, pos[0], *plan)
	if err != nil {
		return err
	}
	if !*confirmed {
		ok, err := a.confirm(fmt.Sprintf("Remove subject %s (%s) and all its entries?", target.ShortName, target.Name))
		if err != nil {
			return err
		}
		if !ok {
			a.printf("Aborted.\n")
			return nil
		}
	}
	if err := a.Engine.Subjects.Remove(ctx, target.ID); err != nil {
		return err
	}
	a.printf("Subject %s removed.\n", target.ShortName)
	return nil
}

// subjectMark sets the final score, or clears it when mark is false.
func (a *App) subjectMark(ctx context.Context, args []string, mark bool) error {
	fs := newFlagSet("subject mark")
	plan := fs.Int64("plan", 0, "plan id")
	pos, err := parseArgs(fs, usageSubject, args)
	if err != nil {
		return err
	}

	var score *float64
	switch {
	case mark && len(pos) == 2:
		v, err := strconv.ParseFloat(pos[1], 64)
		if err != nil {
			return usageErr(usageSubject, "invalid score %q", pos[1])
		}
		score = &v
	case !mark && len(pos) == 1:
	case mark:
		return usageErr(usageSubject, "subject mark expects <subject> <score>")
	default:
		return usageErr(usageSubject, "subject unmark expects <subject>")
	}

	target, err := a.resolveSubject(ctx, pos[0], *plan)
	if err != nil {
		return err
	}
	s, err := a.Engine.Subjects.SetMark(ctx, target.ID, score)
	if err != nil {
		return err
	}
	if score == nil {
		a.printf("Subject %s unmarked.\n", s.ShortName)
		return nil
	}
	a.printf("Subject %s marked with %s.\n", s.ShortName, strconv.FormatFloat(*score, 'f', -1, 64))
	return nil
}
