package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"studyledger/internal/core"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes one sheet per table, named after its mode. Minute cells are numeric.
func WriteXLSX(w io.Writer, tables []core.Table, layout string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range tables {
		name := string(t.Mode)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
		if err := writeSheet(f, name, t, layout, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t core.Table, layout string, headerStyle int) error {
	header := Header(t)
	for c, h := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, "A1", end, headerStyle)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	widths := make([]int, len(header))
	for c, h := range header {
		widths[c] = len(h)
	}

	for r, rec := range Records(t, layout) {
		for c, val := range rec {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if c == 0 {
				err = f.SetCellStr(sheet, cell, val)
			} else {
				n, _ := strconv.ParseInt(val, 10, 64)
				err = f.SetCellValue(sheet, cell, n)
			}
			if err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
			if len(val) > widths[c] {
				widths[c] = len(val)
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := float64(w) * 1.1
		if width < 10 {
			width = 10
		}
		if width > 40 {
			width = 40
		}
		_ = f.SetColWidth(sheet, col, col, width)
	}
	return nil
}
