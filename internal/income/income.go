// Package income computes shift durations, shift pay and monthly totals.
package income

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/model"
)

// ParseClock splits an HH:MM time of day into hour and minute.
func ParseClock(s string) (int, int, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return h, m, nil
}

// Duration returns the hours between start and end. An end at or before the
// start is read as the next day, so 22:00-06:00 is 8 hours. Equal times give
// 0; a full 24-hour shift cannot be expressed.
func Duration(start, end string) (float64, error) {
	sh, sm, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	eh, em, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	d := (float64(eh) + float64(em)/60) - (float64(sh) + float64(sm)/60)
	if d < 0 {
		d += 24
	}
	return d, nil
}

// ShiftDuration is Duration for a shift's own times.
func ShiftDuration(s model.Shift) (float64, error) {
	return Duration(s.Start, s.End)
}

// ShiftValue returns what a shift earns under the job's pay model.
func ShiftValue(s model.Shift, job model.Job) (float64, error) {
	var v float64
	switch pay := job.Pay.(type) {
	case nil:
		return 0, nil
	case model.Hourly:
		hours, err := ShiftDuration(s)
		if err != nil {
			return 0, err
		}
		v = hours * pay.PerHour
	case model.PerShift:
		v = pay.Flat
	default:
		return 0, fmt.Errorf("unsupported pay model %T", pay)
	}
	if s.DoublePay {
		v *= 2
	}
	return v, nil
}

// JobStats holds the exact totals of one job.
type JobStats struct {
	Income float64
	Hours  float64
	Shifts int
}

func (j JobStats) add(o JobStats) JobStats {
	return JobStats{Income: j.Income + o.Income, Hours: j.Hours + o.Hours, Shifts: j.Shifts + o.Shifts}
}

// Stats are the aggregated totals for a set of shifts. Income and Hours are
// kept exact; use TotalIncome and TotalHours for display.
type Stats struct {
	Income float64
	Hours  float64
	Shifts int
	// Skipped counts shifts in range whose times could not be parsed, plus
	// every shift whose date could not be parsed. An undated shift belongs to
	// no range, so each query reports it; Add can therefore count it twice.
	Skipped int
	ByJob   map[string]JobStats
}

// TotalIncome is the income floored to a whole amount.
func (s Stats) TotalIncome() int64 {
	return int64(math.Floor(s.Income))
}

// TotalHours is the hours rounded to the nearest whole hour.
func (s Stats) TotalHours() int64 {
	return int64(math.Round(s.Hours))
}

// Add returns the sum of s and o, keeping exact values.
func (s Stats) Add(o Stats) Stats {
	out := Stats{
		Income:  s.Income + o.Income,
		Hours:   s.Hours + o.Hours,
		Shifts:  s.Shifts + o.Shifts,
		Skipped: s.Skipped + o.Skipped,
		ByJob:   make(map[string]JobStats, len(s.ByJob)+len(o.ByJob)),
	}
	for id, js := range s.ByJob {
		out.ByJob[id] = js
	}
	for id, js := range o.ByJob {
		out.ByJob[id] = out.ByJob[id].add(js)
	}
	return out
}

// MonthlyStats totals the shifts dated in ref's year and month. Shifts whose
// job is unknown or has no rate are left out of every total.
func MonthlyStats(shifts []model.Shift, jobs []model.Job, ref time.Time) Stats {
	return aggregate(shifts, jobs, func(d time.Time) bool {
		return d.Year() == ref.Year() && d.Month() == ref.Month()
	})
}

// YearStats totals the shifts dated in ref's year.
func YearStats(shifts []model.Shift, jobs []model.Job, ref time.Time) Stats {
	return aggregate(shifts, jobs, func(d time.Time) bool {
		return d.Year() == ref.Year()
	})
}

func aggregate(shifts []model.Shift, jobs []model.Job, in func(time.Time) bool) Stats {
	byID := make(map[string]model.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}

	st := Stats{ByJob: map[string]JobStats{}}
	for _, s := range shifts {
		d, err := calendar.ParseDateKey(s.Date)
		if err != nil {
			st.Skipped++
			continue
		}
		if !in(d) {
			continue
		}
		job, ok := byID[s.JobID]
		if !ok || model.Rate(job.Pay) == 0 {
			continue
		}
		hours, err := ShiftDuration(s)
		if err != nil {
			st.Skipped++
			continue
		}
		value, err := ShiftValue(s, job)
		if err != nil {
			st.Skipped++
			continue
		}

		st.Income += value
		st.Hours += hours
		st.Shifts++
		st.ByJob[job.ID] = st.ByJob[job.ID].add(JobStats{Income: value, Hours: hours, Shifts: 1})
	}
	return st
}
