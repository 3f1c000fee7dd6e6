package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"studyledger/internal/config"
	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/services"
)

// App runs one command against an opened engine.
type App struct {
	Engine  *services.Engine
	Config  *config.Config
	In      io.Reader
	Out     io.Writer
	Logger  *log.Logger
	Today   func() core.Date
	Now     func() time.Time
	Version string

	in *bufio.Reader
}

// NewApp fills the clock and logger defaults.
func NewApp(engine *services.Engine, cfg *config.Config, in io.Reader, out io.Writer, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Discard()
	}
	return &App{
		Engine:  engine,
		Config:  cfg,
		In:      in,
		Out:     out,
		Logger:  logger.WithComponent(log.ComponentCLI),
		Today:   core.Today,
		Now:     time.Now,
		Version: "dev",
	}
}

type command func(ctx context.Context, args []string) error

// Run dispatches args[0] to its command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &UsageError{Msg: "missing command", Usage: usageMain}
	}
	commands := map[string]command{
		"plan":     a.runPlan,
		"subject":  a.runSubject,
		"add":      a.runAdd,
		"subtract": a.runSubtract,
		"set":      a.runSet,
		"status":   a.runStatus,
		"export":   a.runExport,
		"version":  a.runVersion,
		"help":     a.runHelp,
	}
	run, ok := commands[args[0]]
	if !ok {
		return usageErr(usageMain, "unknown command %q", args[0])
	}

	start := time.Now()
	err := run(ctx, args[1:])
	a.Logger.DebugContext(ctx, "Command finished",
		log.FieldCommand, args[0],
		log.FieldDurationMs, time.Since(start).Milliseconds(),
		log.FieldError, err)
	return err
}

func (a *App) runHelp(_ context.Context, args []string) error {
	if len(args) > 0 {
		if text, ok := commandUsage[args[0]]; ok {
			fmt.Fprint(a.Out, text)
			return nil
		}
	}
	fmt.Fprint(a.Out, usageMain)
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) layout() string {
	return a.Config.DateFormat
}

func (a *App) formatDate(d core.Date) string {
	return d.Format(a.layout())
}

func (a *App) parseDate(usage, s string) (core.Date, error) {
	d, err := core.ParseDate(a.layout(), s)
	if err != nil {
		return core.Date{}, usageErr(usage, "invalid date %q, expected format %s", s, a.layout())
	}
	return d, nil
}

func (a *App) newDateFlag(fs *flag.FlagSet, name, help string) *dateFlag {
	f := &dateFlag{layout: a.layout()}
	fs.Var(f, name, help)
	return f
}

// period returns the period with id planID, or the one covering d when planID is 0.
func (a *App) period(ctx context.Context, planID int64, d core.Date) (core.Period, error) {
	if planID > 0 {
		p, err := a.Engine.Periods.Get(ctx, planID)
		if errors.Is(err, core.ErrNotFound) {
			return core.Period{}, fmt.Errorf("plan %d: %w", planID, err)
		}
		return p, err
	}
	p, err := a.Engine.Periods.FindCovering(ctx, d)
	if errors.Is(err, core.ErrNotFound) {
		return core.Period{}, fmt.Errorf("no plan covers %s, start one with 'plan start' or pass --plan: %w",
			a.formatDate(d), core.ErrNotFound)
	}
	return p, err
}

// filterPeriod is the period id used to disambiguate short names. Zero when no
// plan was given and none covers today.
func (a *App) filterPeriod(ctx context.Context, planID int64) (int64, error) {
	if planID > 0 {
		return planID, nil
	}
	p, err := a.Engine.Periods.FindCovering(ctx, a.Today())
	if errors.Is(err, core.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (a *App) resolveSubject(ctx context.Context, token string, planID int64) (core.Subject, error) {
	periodID, err := a.filterPeriod(ctx, planID)
	if err != nil {
		return core.Subject{}, err
	}
	s, err := a.Engine.Subjects.Resolve(ctx, token, periodID)
	if err != nil {
		return core.Subject{}, fmt.Errorf("subject %q: %w", token, err)
	}
	return s, nil
}

// confirm asks question on Out and reads the answer from In.
func (a *App) confirm(question string) (bool, error) {
	if a.in == nil {
		if a.In == nil {
			return false, nil
		}
		a.in = bufio.NewReader(a.In)
	}
	a.printf("%s [y/N] ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
