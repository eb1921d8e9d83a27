// Package calendar converts between dates and local date keys and lays out
// month grids.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the layout of a date key.
const KeyLayout = "2006-01-02"

// DateKey formats t as YYYY-MM-DD using t's own calendar fields. The time is
// never converted to UTC first, so a late-evening local time keeps its day.
func DateKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseDateKey returns local midnight of the day named by key. The three
// fields are passed to time.Date, so an out-of-range day rolls over the way
// time.Date normalises it.
func ParseDateKey(key string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date key %q", key)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
		}
		n[i] = v
	}
	return time.Date(n[0], time.Month(n[1]), n[2], 0, 0, 0, 0, time.Local), nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthRange returns the first and last day of t's month at midnight.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthLabel returns a label like "2024-06".
func MonthLabel(t time.Time) string {
	return t.Format("2006-01")
}
