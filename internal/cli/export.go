package cli

import (
	"context"

	"studyledger/internal/core"
	"studyledger/internal/export"
	"studyledger/internal/storage"
)

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	plan := fs.Int64("plan", 0, "plan id")
	from := a.newDateFlag(fs, "start", "first day, defaults to the plan start")
	to := a.newDateFlag(fs, "end", "last day, defaults to the plan end")
	formatName := fs.String("format", string(export.CSV), "csv, xlsx or ics")
	pos, err := parseArgs(fs, usageExport, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageErr(usageExport, "export expects one of daily, weekly, monthly, all")
	}
	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return usageErr(usageExport, "%v", err)
	}

	p, err := a.period(ctx, *plan, a.Today())
	if err != nil {
		return err
	}
	iv := core.Interval{From: from.date, To: to.date}

	var tables []core.Table
	if pos[0] == "all" {
		if tables, err = a.Engine.Reports.Tables(ctx, p, iv); err != nil {
			return err
		}
	} else {
		mode, err := core.ParseMode(pos[0])
		if err != nil {
			return usageErr(usageExport, "%v", err)
		}
		t, err := a.Engine.Reports.Table(ctx, p, mode, iv)
		if err != nil {
			return err
		}
		tables = []core.Table{t}
	}

	exp := export.NewExporter(a.Config.ExportDir, a.layout(), format, a.Logger)
	exp.Now = a.Now
	paths, err := exp.Write(ctx, p.Description, tables)
	if err != nil {
		return err
	}
	for _, path := range paths {
		a.printf("Exported %s\n", path)
	}
	return nil
}

// runVersion prints the build version and, for SQLite, the schema version.
func (a *App) runVersion(_ context.Context, _ []string) error {
	a.printf("studyledger %s\n", a.Version)
	if a.Config == nil || a.Config.Backend != "sqlite" {
		return nil
	}
	v, dirty, err := storage.SchemaVersion(storage.DSN(a.Config.DBPath))
	if err != nil {
		return err
	}
	if dirty {
		a.printf("schema version %d (dirty)\n", v)
		return nil
	}
	a.printf("schema version %d\n", v)
	return nil
}
