package types

import (
	"errors"
	"strconv"
)

// Column positions in the 311 service request export. The file has no header
// row, so every field is addressed by its zero-based index.
const (
	ColCreatedDate   = 1
	ColComplaintType = 5
	ColBorough       = 25

	// Location columns, only read by the boundary filter.
	ColXCoord    = 26 // NY Long Island state plane, US feet
	ColYCoord    = 27
	ColLatitude  = 38
	ColLongitude = 39

	// MinColumns is the narrowest row the pipeline accepts.
	MinColumns = ColBorough + 1
)

// Header is the column layout of the aggregate output.
var Header = []string{"Complaint Type", "Borough", "Count"}

// Error classes. Every error returned by the pipeline wraps exactly one of
// these so the command can choose an exit code.
var (
	ErrArgument = errors.New("argument error")
	ErrIO       = errors.New("i/o error")
	ErrData     = errors.New("data error")
)

// Table holds the rows of a headerless CSV file in file order.
type Table struct {
	Rows  [][]string
	Width int // field count of every row, fixed by the first row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Key identifies one aggregate group. Values are compared byte for byte.
type Key struct {
	ComplaintType string
	Borough       string
}

// CountRow is one line of the aggregate output.
type CountRow struct {
	ComplaintType string
	Borough       string
	Count         int
}

// Record returns the row as CSV fields in Header order.
func (r CountRow) Record() []string {
	return []string{r.ComplaintType, r.Borough, strconv.Itoa(r.Count)}
}
