// Package emit writes aggregate rows as CSV.
package emit

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"complaints/internal/types"
)

// Write serialises the header and rows to w. Fields containing a comma, a
// quote or a line break are quoted. encoding/csv also quotes a field that
// starts with a space or tab, and the lone field `\.`; readers get the same
// values back either way.
func Write(w io.Writer, rows []types.CountRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(types.Header); err != nil {
		return fmt.Errorf("%w: write header: %w", types.ErrIO, err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("%w: write row %q/%q: %w", types.ErrIO, r.ComplaintType, r.Borough, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush csv: %w", types.ErrIO, err)
	}
	return nil
}

// ToFile creates or truncates path and writes the CSV there.
func ToFile(path string, rows []types.CountRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create output: %w", types.ErrIO, err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close output: %w", types.ErrIO, err)
	}
	return nil
}

// ToStdout writes the CSV to standard output followed by one blank line.
func ToStdout(rows []types.CountRow) error {
	return ToStream(os.Stdout, rows)
}

// ToStream writes the CSV to w the way ToStdout does.
func ToStream(w io.Writer, rows []types.CountRow) error {
	bw := bufio.NewWriter(w)
	if err := Write(bw, rows); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("%w: write trailing newline: %w", types.ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write stdout: %w", types.ErrIO, err)
	}
	return nil
}
