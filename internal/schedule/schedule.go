// Package schedule edits job and shift collections. Every function returns a
// new slice and leaves its input untouched, and jobs and shifts are always
// addressed by id rather than position.
package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Tiliavir/shiftsync/internal/model"
)

// IDs of the jobs created on first start.
const (
	JobAID = "job-a"
	JobBID = "job-b"
)

// DefaultHourlyRate is the rate given to newly created jobs.
const DefaultHourlyRate = 183

// Palette lists the colors handed out to new jobs in order.
var Palette = []string{"indigo", "emerald", "rose", "amber", "sky", "violet", "stone"}

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrShiftNotFound = errors.New("shift not found")
	ErrDuplicateJob  = errors.New("job id already exists")
)

// DefaultJobs is the job collection used before anything has been saved.
func DefaultJobs() []model.Job {
	return []model.Job{
		{
			ID:          JobAID,
			Name:        "Job A",
			Color:       "indigo",
			ManagerName: "Store manager",
			Pay:         model.Hourly{PerHour: DefaultHourlyRate},
			Presets: []model.Preset{
				{Label: "Early", Start: "09:00", End: "18:00"},
				{Label: "Late", Start: "18:00", End: "22:00"},
			},
		},
		{
			ID:          JobBID,
			Name:        "Job B",
			Color:       "emerald",
			ManagerName: "Team lead",
			Pay:         model.PerShift{Flat: 1200},
			Presets: []model.Preset{
				{Label: "All day", Start: "10:00", End: "22:00"},
			},
		},
	}
}

// NewJob returns a job with default fields, named and colored after its
// position among existing.
func NewJob(existing []model.Job) model.Job {
	n := len(existing)
	return model.Job{
		ID:      model.NewID(),
		Name:    fmt.Sprintf("Job %d", n+1),
		Color:   Palette[n%len(Palette)],
		Pay:     model.Hourly{PerHour: DefaultHourlyRate},
		Presets: []model.Preset{{Label: "Early", Start: "09:00", End: "17:00"}},
	}
}

// FindJob looks a job up by id.
func FindJob(jobs []model.Job, id string) (model.Job, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return model.Job{}, false
}

// AddJob appends job. Job ids must be unique.
func AddJob(jobs []model.Job, job model.Job) ([]model.Job, error) {
	if _, ok := FindJob(jobs, job.ID); ok {
		return jobs, fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}
	out := make([]model.Job, 0, len(jobs)+1)
	out = append(out, jobs...)
	return append(out, job), nil
}

// ReplaceJob swaps in job for the entry with the same id.
func ReplaceJob(jobs []model.Job, job model.Job) ([]model.Job, error) {
	out := make([]model.Job, len(jobs))
	copy(out, jobs)
	for i := range out {
		if out[i].ID == job.ID {
			out[i] = job
			return out, nil
		}
	}
	return jobs, fmt.Errorf("%w: %s", ErrJobNotFound, job.ID)
}

// RemoveJob deletes a job together with all of its shifts.
func RemoveJob(jobs []model.Job, shifts []model.Shift, id string) ([]model.Job, []model.Shift, error) {
	if _, ok := FindJob(jobs, id); !ok {
		return jobs, shifts, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	keptJobs := make([]model.Job, 0, len(jobs)-1)
	for _, j := range jobs {
		if j.ID != id {
			keptJobs = append(keptJobs, j)
		}
	}
	return keptJobs, RemoveShiftsOfJob(shifts, id), nil
}

// RemoveShiftsOfJob drops every shift belonging to jobID.
func RemoveShiftsOfJob(shifts []model.Shift, jobID string) []model.Shift {
	out := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.JobID != jobID {
			out = append(out, s)
		}
	}
	return out
}

// AddPreset appends a preset to the job with the given id.
func AddPreset(jobs []model.Job, jobID string, p model.Preset) ([]model.Job, error) {
	job, ok := FindJob(jobs, jobID)
	if !ok {
		return jobs, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	presets := make([]model.Preset, 0, len(job.Presets)+1)
	presets = append(presets, job.Presets...)
	job.Presets = append(presets, p)
	return ReplaceJob(jobs, job)
}

// RemovePreset deletes the preset at index i of the job.
func RemovePreset(jobs []model.Job, jobID string, i int) ([]model.Job, error) {
	job, ok := FindJob(jobs, jobID)
	if !ok {
		return jobs, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if i < 0 || i >= len(job.Presets) {
		return jobs, fmt.Errorf("job %s has no preset %d", jobID, i)
	}
	presets := make([]model.Preset, 0, len(job.Presets)-1)
	presets = append(presets, job.Presets[:i]...)
	job.Presets = append(presets, job.Presets[i+1:]...)
	return ReplaceJob(jobs, job)
}

// FindShift looks a shift up by id.
func FindShift(shifts []model.Shift, id string) (model.Shift, bool) {
	for _, s := range shifts {
		if s.ID == id {
			return s, true
		}
	}
	return model.Shift{}, false
}

// AddShifts appends shifts in order.
func AddShifts(shifts []model.Shift, add ...model.Shift) []model.Shift {
	out := make([]model.Shift, 0, len(shifts)+len(add))
	out = append(out, shifts...)
	return append(out, add...)
}

// RemoveShift deletes the shift with the given id.
func RemoveShift(shifts []model.Shift, id string) ([]model.Shift, error) {
	out := make([]model.Shift, 0, len(shifts))
	found := false
	for _, s := range shifts {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		return shifts, fmt.Errorf("%w: %s", ErrShiftNotFound, id)
	}
	return out, nil
}

// ReplaceShift swaps in s for the shift with the same id.
func ReplaceShift(shifts []model.Shift, s model.Shift) ([]model.Shift, error) {
	out := make([]model.Shift, len(shifts))
	copy(out, shifts)
	for i := range out {
		if out[i].ID == s.ID {
			out[i] = s
			return out, nil
		}
	}
	return shifts, fmt.Errorf("%w: %s", ErrShiftNotFound, s.ID)
}

// ShiftsOn returns the shifts on date, limited to jobID unless it is empty.
func ShiftsOn(shifts []model.Shift, date, jobID string) []model.Shift {
	var out []model.Shift
	for _, s := range shifts {
		if s.Date == date && (jobID == "" || s.JobID == jobID) {
			out = append(out, s)
		}
	}
	return out
}

// Sorted returns the shifts ordered by date, then start time.
func Sorted(shifts []model.Shift) []model.Shift {
	out := make([]model.Shift, len(shifts))
	copy(out, shifts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// Copy turns shifts into clipboard entries.
func Copy(shifts []model.Shift) []model.ClipboardShift {
	out := make([]model.ClipboardShift, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, model.ClipboardShift{
			Start:     s.Start,
			End:       s.End,
			Note:      s.Note,
			DoublePay: s.DoublePay,
			JobID:     s.JobID,
		})
	}
	return out
}

// Paste creates new shifts from clip on date for jobID, whichever job the
// entries were copied from.
func Paste(clip []model.ClipboardShift, jobID, date string) []model.Shift {
	out := make([]model.Shift, 0, len(clip))
	for _, c := range clip {
		out = append(out, model.Shift{
			ID:        model.NewID(),
			JobID:     jobID,
			Date:      date,
			Start:     c.Start,
			End:       c.End,
			Note:      c.Note,
			DoublePay: c.DoublePay,
		})
	}
	return out
}
