// Package export writes shifts as an iCalendar file, CSV or JSON.
package export

import (
	"time"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/income"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
)

// UnknownJob names shifts whose job no longer exists.
const UnknownJob = "Unknown job"

type row struct {
	shift   model.Shift
	jobName string
	hours   float64
	income  float64
	start   time.Time
	end     time.Time
	valid   bool
}

// rows resolves jobs and times for shifts in date order. A shift with a
// malformed date or time is returned with valid false and zero totals.
func rows(shifts []model.Shift, jobs []model.Job) []row {
	out := make([]row, 0, len(shifts))
	for _, s := range schedule.Sorted(shifts) {
		r := row{shift: s, jobName: UnknownJob}
		job, ok := schedule.FindJob(jobs, s.JobID)
		if ok {
			r.jobName = job.Name
		}

		start, end, err := span(s)
		if err == nil {
			r.start, r.end, r.valid = start, end, true
			r.hours, _ = income.ShiftDuration(s)
			if ok {
				r.income, _ = income.ShiftValue(s, job)
			}
		}
		out = append(out, r)
	}
	return out
}

// span returns the local start and end of a shift. An end before the start
// falls on the next day.
func span(s model.Shift) (time.Time, time.Time, error) {
	day, err := calendar.ParseDateKey(s.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	sh, sm, err := income.ParseClock(s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := income.ParseClock(s.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, time.Local)
	end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, time.Local)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}
