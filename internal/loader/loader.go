// Package loader reads headerless complaint exports into memory and applies
// the created-date range filter.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"complaints/internal/types"
)

// Load reads the whole file at path and returns the rows whose created date
// falls within [start, end].
func Load(path string, start, end time.Time) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open input: %w", types.ErrIO, err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Filter(table, start, end)
}

// Read parses every record from r. All rows must have the width of the first
// row, and that width must reach types.MinColumns.
func Read(r io.Reader) (*types.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0 // fixed by the first record

	rows, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %w", types.ErrData, err)
		}
		return nil, fmt.Errorf("%w: read input: %w", types.ErrIO, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: input has no rows", types.ErrData)
	}

	width := len(rows[0])
	if width < types.MinColumns {
		return nil, fmt.Errorf("%w: row 1 has %d fields, need at least %d (created date at %d, complaint type at %d, borough at %d)",
			types.ErrData, width, types.MinColumns, types.ColCreatedDate, types.ColComplaintType, types.ColBorough)
	}

	return &types.Table{Rows: rows, Width: width}, nil
}

// Filter keeps the rows whose created date t satisfies start <= t <= end.
// Any unparseable created date aborts the whole run.
func Filter(table *types.Table, start, end time.Time) (*types.Table, error) {
	out := &types.Table{Width: table.Width}
	for i, row := range table.Rows {
		if len(row) < types.MinColumns {
			return nil, fmt.Errorf("%w: row %d has %d fields, need at least %d",
				types.ErrData, i+1, len(row), types.MinColumns)
		}
		t, err := ParseTimestamp(row[types.ColCreatedDate])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: created date: %w", types.ErrData, i+1, err)
		}
		if t.Before(start) || t.After(end) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
