// Package paint implements quick paint: tapping a day with a job's preset
// selected adds that preset shift, tapping again removes it.
package paint

import "github.com/Tiliavir/shiftsync/internal/model"

// Action is what a tap did.
type Action int

const (
	None Action = iota
	Added
	Removed
)

func (a Action) String() string {
	switch a {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "none"
	}
}

// Stroke describes the result of one tap.
type Stroke struct {
	Action Action
	Shift  model.Shift
}

// Brush is the active job together with the index of its selected preset.
type Brush struct {
	Job    model.Job
	Preset int
}

// Tap toggles the brush's preset shift on date. A shift matching the job,
// date, start and end is removed; otherwise a new one labelled with the
// preset is appended. Note and double pay do not take part in the match.
// The input slice is not modified.
func (b Brush) Tap(shifts []model.Shift, date string) ([]model.Shift, Stroke) {
	preset, ok := b.Job.PresetAt(b.Preset)
	if !ok {
		return shifts, Stroke{Action: None}
	}

	for i, s := range shifts {
		if s.JobID == b.Job.ID && s.Date == date && s.Start == preset.Start && s.End == preset.End {
			out := make([]model.Shift, 0, len(shifts)-1)
			out = append(out, shifts[:i]...)
			out = append(out, shifts[i+1:]...)
			return out, Stroke{Action: Removed, Shift: s}
		}
	}

	added := model.Shift{
		ID:    model.NewID(),
		JobID: b.Job.ID,
		Date:  date,
		Start: preset.Start,
		End:   preset.End,
		Note:  preset.Label,
	}
	out := make([]model.Shift, 0, len(shifts)+1)
	out = append(out, shifts...)
	out = append(out, added)
	return out, Stroke{Action: Added, Shift: added}
}

// Paint taps every date in order and returns the final shifts with one
// stroke per date.
func (b Brush) Paint(shifts []model.Shift, dates ...string) ([]model.Shift, []Stroke) {
	strokes := make([]Stroke, 0, len(dates))
	for _, d := range dates {
		var st Stroke
		shifts, st = b.Tap(shifts, d)
		strokes = append(strokes, st)
	}
	return shifts, strokes
}
