// Package csvio reads input records for tabular generation and writes
// generated tables back out as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/strandkit/strand"
)

// Read parses CSV input: the first record is the column header, the rest are
// data records. Ragged records are rejected by the csv reader.
func Read(r io.Reader) (columns []string, records [][]string, err error) {
	cr := csv.NewReader(r)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("csv input is empty")
	}
	return all[0], all[1:], nil
}

// ReadFile reads CSV input from path.
func ReadFile(path string) (columns []string, records [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	columns, records, err = Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return columns, records, nil
}

// Write renders a table as CSV, header first.
func Write(w io.Writer, t strand.Table) error {
	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes a table to path as CSV.
func WriteFile(path string, t strand.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
