package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"studyledger/internal/core"
	"studyledger/internal/log"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	ICS  Format = "ics"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case CSV, XLSX, ICS:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be csv, xlsx or ics", s)
	}
}

// Exporter writes computed tables into files under Dir.
type Exporter struct {
	Dir        string
	DateLayout string
	Format     Format
	Now        func() time.Time
	logger     *log.Logger
}

func NewExporter(dir, dateLayout string, format Format, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Exporter{
		Dir:        dir,
		DateLayout: dateLayout,
		Format:     format,
		Now:        time.Now,
		logger:     logger.WithComponent(log.ComponentExport),
	}
}

// Write stores the tables and returns the created paths. CSV and ICS get one file
// per table, written concurrently; XLSX gets one workbook with a sheet per table.
func (e *Exporter) Write(ctx context.Context, description string, tables []core.Table) ([]string, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	now := e.Now()

	if e.Format == XLSX {
		mode := string(tables[0].Mode)
		if len(tables) > 1 {
			mode = "all"
		}
		path := filepath.Join(e.Dir, FileName(mode, description, now, string(XLSX)))
		if err := writeFile(path, func(f *os.File) error { return WriteXLSX(f, tables, e.DateLayout) }); err != nil {
			return nil, err
		}
		e.logWritten(ctx, path, tables...)
		return []string{path}, nil
	}

	paths := make([]string, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		t := t
		path := filepath.Join(e.Dir, FileName(string(t.Mode), description, now, string(e.Format)))
		paths[i] = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			write := func(f *os.File) error { return WriteCSV(f, t, e.DateLayout) }
			if e.Format == ICS {
				write = func(f *os.File) error { return WriteICS(f, t, now) }
			}
			if err := writeFile(path, write); err != nil {
				return err
			}
			e.logWritten(gctx, path, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (e *Exporter) logWritten(ctx context.Context, path string, tables ...core.Table) {
	rows := 0
	for _, t := range tables {
		rows += len(t.Rows)
	}
	e.logger.InfoContext(ctx, "Export written",
		log.FieldPath, path,
		log.FieldRows, rows)
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
