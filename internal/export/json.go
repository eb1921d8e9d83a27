package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/shiftsync/internal/model"
)

type jsonExport struct {
	ExportedAt string      `json:"exportedAt"`
	Count      int         `json:"count"`
	Hours      float64     `json:"hours"`
	Income     float64     `json:"income"`
	Shifts     []jsonShift `json:"shifts"`
}

type jsonShift struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	JobID     string  `json:"jobId"`
	Job       string  `json:"job"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Hours     float64 `json:"hours"`
	Income    float64 `json:"income"`
	DoublePay bool    `json:"doublePay,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// JSON writes shifts with per-shift hours and pay, plus the totals.
func JSON(w io.Writer, shifts []model.Shift, jobs []model.Job) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Shifts:     []jsonShift{},
	}
	for _, r := range rows(shifts, jobs) {
		out.Shifts = append(out.Shifts, jsonShift{
			ID:        r.shift.ID,
			Date:      r.shift.Date,
			JobID:     r.shift.JobID,
			Job:       r.jobName,
			Start:     r.shift.Start,
			End:       r.shift.End,
			Hours:     r.hours,
			Income:    r.income,
			DoublePay: r.shift.DoublePay,
			Note:      r.shift.Note,
		})
		out.Hours += r.hours
		out.Income += r.income
	}
	out.Count = len(out.Shifts)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}
