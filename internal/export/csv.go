package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"studyledger/internal/core"
)

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, t core.Table, layout string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(Records(t, layout)); err != nil {
		return fmt.Errorf("write %s rows: %w", t.Mode, err)
	}
	return nil
}
