// Package batch parses free-text shift lists such as
//
//	5 0900-1800
//	6 12-20 team meeting
//
// into shifts for a given month.
package batch

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/model"
)

// DefaultTime replaces a time token that cannot be read.
const DefaultTime = "09:00"

// Result is the outcome of parsing a batch.
type Result struct {
	Shifts []model.Shift
	// Fallbacks counts time tokens that were replaced by DefaultTime.
	Fallbacks int
	// Skipped counts non-blank lines that did not produce a shift.
	Skipped int
}

// Parse reads one shift per line. The first token is the day of month, the
// second a start-end range; any further tokens form the note. Lines without a
// leading day number are ignored. Days past the end of the month roll over
// into the next one.
func Parse(text string, year int, month time.Month, jobID string) Result {
	var res Result
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			res.Skipped++
			continue
		}
		day, ok := leadingInt(fields[0])
		if !ok {
			res.Skipped++
			continue
		}

		rawStart, rawEnd, _ := strings.Cut(fields[1], "-")
		start, okStart := NormalizeTime(rawStart)
		end, okEnd := NormalizeTime(rawEnd)
		if !okStart {
			res.Fallbacks++
		}
		if !okEnd {
			res.Fallbacks++
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		res.Shifts = append(res.Shifts, model.Shift{
			ID:    model.NewID(),
			JobID: jobID,
			Date:  calendar.DateKey(date),
			Start: start,
			End:   end,
			Note:  strings.Join(fields[2:], " "),
		})
	}
	return res
}

// NormalizeTime turns one side of a time range into HH:MM. A value with a
// colon is kept as written, four digits are split into HH:MM and one or two
// digits are read as a whole hour. Anything else yields DefaultTime and false.
func NormalizeTime(t string) (string, bool) {
	switch {
	case t == "":
		return DefaultTime, false
	case strings.Contains(t, ":"):
		return t, true
	case utf8.RuneCountInString(t) == 4 && isDigits(t):
		return t[:2] + ":" + t[2:], true
	case utf8.RuneCountInString(t) <= 2 && isDigits(t):
		if len(t) == 1 {
			t = "0" + t
		}
		return t + ":00", true
	default:
		return DefaultTime, false
	}
}

// leadingInt reads the decimal digits at the start of s, so "5" and "5th"
// both give 5.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
