package export

import (
	ics "github.com/arran4/golang-ical"

	"github.com/Tiliavir/shiftsync/internal/model"
)

const (
	ProductID = "-//shiftsync//Shift Calendar//EN"
	// floatingLayout has no zone, so calendar apps show the shift at the same
	// wall-clock time wherever they are.
	floatingLayout = "20060102T150405"
)

// ICS renders shifts as an iCalendar document with one event per shift.
// Shifts whose date or times cannot be read are left out.
func ICS(shifts []model.Shift, jobs []model.Job) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetCalscale("GREGORIAN")

	for _, r := range rows(shifts, jobs) {
		if !r.valid {
			continue
		}
		event := cal.AddEvent(r.shift.ID)
		event.SetProperty(ics.ComponentPropertyDtStart, r.start.Format(floatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, r.end.Format(floatingLayout))
		event.SetSummary(r.jobName)
		if r.shift.Note != "" {
			event.SetDescription(r.shift.Note)
		}
	}
	return cal.Serialize()
}
