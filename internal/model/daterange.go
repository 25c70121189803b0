package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLookback is how far back a range reaches when no start is given.
const DefaultLookback = 365 * 24 * time.Hour

// EarliestDate is the lower bound of any requested range.
var EarliestDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseRange builds a range from optional "YYYY-MM-DD" strings. A missing end
// is today and a missing start is one year before the end. Both ends are
// clamped to [EarliestDate, today]. start after end is passed through; the
// provider answers it with no bars.
func ParseRange(start, end string, now time.Time) (DateRange, error) {
	today := TruncateDay(now)

	e := today
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: want %s", s, DateLayout)
		}
		e = t
	}
	e = clampDay(e, today)

	st := e.Add(-DefaultLookback)
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: want %s", s, DateLayout)
		}
		st = t
	}
	st = clampDay(st, today)

	return NewDateRange(st, e), nil
}

func clampDay(t, today time.Time) time.Time {
	t = TruncateDay(t)
	switch {
	case t.Before(EarliestDate):
		return EarliestDate
	case t.After(today):
		return today
	}
	return t
}
