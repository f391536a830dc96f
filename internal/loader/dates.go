package loader

import (
	"fmt"
	"strings"
	"time"

	"complaints/internal/types"
)

// timestampLayouts are tried in order. Unpadded month, day and hour elements
// also accept zero-padded input, and fractional seconds after the seconds
// field are accepted by time.Parse even when the layout omits them.
var timestampLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04:05Z07:00",
	"2006-1-2 15:04:05Z07:00",
	"2006-1-2 15:04",
	"2006-1-2T15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006/1/2",
	"2006/1/2 15:04:05",
}

// ParseTimestamp interprets a created-date field. Values without a zone are
// read as UTC so that they compare consistently with ParseDate results.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

// ParseDate parses a --start or --end argument. A bare date means midnight,
// so an end date excludes anything later on that same day.
func ParseDate(raw string) (time.Time, error) {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q: expected YYYY-MM-DD", types.ErrArgument, raw)
	}
	return t, nil
}
