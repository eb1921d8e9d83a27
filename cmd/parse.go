package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/shiftsync/internal/batch"
	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/income"
	"github.com/Tiliavir/shiftsync/internal/model"
)

const monthLayout = "2006-01"

// parseMonth reads --month (YYYY-MM). Empty means the month containing now.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		first, _ := calendar.MonthRange(now)
		return first, nil
	}
	t, err := time.ParseInLocation(monthLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t, nil
}

// parseYear reads --year. Empty means now's year.
func parseYear(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.Local), nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return time.Time{}, fmt.Errorf("invalid year %q", s)
	}
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.Local), nil
}

// parseDate reads a date argument: YYYY-MM-DD, "today" or "tomorrow". The
// result is the canonical date key.
func parseDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(s) {
	case "today":
		return calendar.DateKey(now), nil
	case "tomorrow":
		return calendar.DateKey(now.AddDate(0, 0, 1)), nil
	}
	t, err := time.ParseInLocation(calendar.KeyLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return calendar.DateKey(t), nil
}

// parseClock accepts the same shorthands as batch input (9, 0930, 09:30) but
// rejects anything that is not a valid time of day.
func parseClock(s string) (string, error) {
	norm, ok := batch.NormalizeTime(strings.TrimSpace(s))
	if !ok {
		return "", fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, m, err := income.ParseClock(norm)
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return "", fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// resolveJob finds a job by id, by case-insensitive name or by its 1-based
// position in the list. Empty ref selects the first job.
func resolveJob(jobs []model.Job, ref string) (model.Job, error) {
	if len(jobs) == 0 {
		return model.Job{}, fmt.Errorf("no jobs defined; add one with: shiftsync job add")
	}
	if ref == "" {
		return jobs[0], nil
	}
	for _, j := range jobs {
		if j.ID == ref {
			return j, nil
		}
	}
	for _, j := range jobs {
		if strings.EqualFold(j.Name, ref) {
			return j, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(jobs) {
		return jobs[n-1], nil
	}
	return model.Job{}, fmt.Errorf("unknown job %q", ref)
}

// jobNames maps job ids to names.
func jobNames(jobs []model.Job) map[string]string {
	names := make(map[string]string, len(jobs))
	for _, j := range jobs {
		names[j.ID] = j.Name
	}
	return names
}

// formatPay describes a pay model for listings.
func formatPay(p model.Pay) string {
	switch pay := p.(type) {
	case model.Hourly:
		return fmt.Sprintf("%s/h", formatAmount(pay.PerHour))
	case model.PerShift:
		return fmt.Sprintf("%s/shift", formatAmount(pay.Flat))
	default:
		return "unpaid"
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatHours prints hours with at most two decimals, without trailing zeros.
func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
