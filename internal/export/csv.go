package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Tiliavir/shiftsync/internal/model"
)

// CSV writes one row per shift with its hours and pay.
func CSV(w io.Writer, shifts []model.Shift, jobs []model.Job) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ID", "Date", "Job", "Start", "End", "Hours", "Income", "Double pay", "Note"}); err != nil {
		return err
	}
	for _, r := range rows(shifts, jobs) {
		rec := []string{
			r.shift.ID,
			r.shift.Date,
			r.jobName,
			r.shift.Start,
			r.shift.End,
			strconv.FormatFloat(r.hours, 'f', 2, 64),
			strconv.FormatFloat(r.income, 'f', 2, 64),
			strconv.FormatBool(r.shift.DoublePay),
			r.shift.Note,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
