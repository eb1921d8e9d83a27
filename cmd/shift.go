package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/export"
	"github.com/Tiliavir/shiftsync/internal/income"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
)

var (
	shiftJob    string
	shiftStart  string
	shiftEnd    string
	shiftPreset int
	shiftNote   string
	shiftDouble bool
	shiftDate   string
	shiftMonth  string
)

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Add, edit, list and copy shifts",
}

var shiftAddCmd = &cobra.Command{
	Use:   "add <date>",
	Short: "Add a shift (date as YYYY-MM-DD, today or tomorrow)",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftAdd,
}

var shiftEditCmd = &cobra.Command{
	Use:   "edit <shift-id>",
	Short: "Change a shift; its id is kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftEdit,
}

var shiftRmCmd = &cobra.Command{
	Use:   "rm <shift-id>",
	Short: "Delete a shift",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftRm,
}

var shiftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shifts of a month or a single day",
	Args:  cobra.NoArgs,
	RunE:  runShiftList,
}

var shiftCopyCmd = &cobra.Command{
	Use:   "copy <date>",
	Short: "Copy a day's shifts to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftCopy,
}

var shiftPasteCmd = &cobra.Command{
	Use:   "paste <date>",
	Short: "Paste the clipboard onto a day for the selected job",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftPaste,
}

func init() {
	shiftAddCmd.Flags().StringVar(&shiftJob, "job", "", "Job id, name or number (default: first job)")
	shiftAddCmd.Flags().IntVar(&shiftPreset, "preset", 0, "Use the job's preset N for times and note")
	shiftAddCmd.Flags().StringVar(&shiftStart, "start", "", "Start time (HH:MM)")
	shiftAddCmd.Flags().StringVar(&shiftEnd, "end", "", "End time (HH:MM); at or before start means the next day")
	shiftAddCmd.Flags().StringVar(&shiftNote, "note", "", "Note")
	shiftAddCmd.Flags().BoolVar(&shiftDouble, "double", false, "Double pay")

	shiftEditCmd.Flags().StringVar(&shiftJob, "job", "", "Move to another job")
	shiftEditCmd.Flags().StringVar(&shiftDate, "date", "", "Move to another date")
	shiftEditCmd.Flags().StringVar(&shiftStart, "start", "", "Start time (HH:MM)")
	shiftEditCmd.Flags().StringVar(&shiftEnd, "end", "", "End time (HH:MM)")
	shiftEditCmd.Flags().StringVar(&shiftNote, "note", "", "Note")
	shiftEditCmd.Flags().BoolVar(&shiftDouble, "double", false, "Double pay")

	shiftListCmd.Flags().StringVar(&shiftMonth, "month", "", "Month as YYYY-MM (default: current month)")
	shiftListCmd.Flags().StringVar(&shiftDate, "date", "", "Only this date")
	shiftListCmd.Flags().StringVar(&shiftJob, "job", "", "Only this job")

	shiftCopyCmd.Flags().StringVar(&shiftJob, "job", "", "Only copy this job's shifts")
	shiftPasteCmd.Flags().StringVar(&shiftJob, "job", "", "Job to paste onto (default: first job)")

	shiftCmd.AddCommand(shiftAddCmd, shiftEditCmd, shiftRmCmd, shiftListCmd, shiftCopyCmd, shiftPasteCmd)
}

func runShiftAdd(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	date, err := parseDate(args[0], time.Now())
	if err != nil {
		fail(1, err)
	}
	job, err := resolveJob(a.Jobs.Value(), shiftJob)
	if err != nil {
		fail(1, err)
	}

	s := model.Shift{ID: model.NewID(), JobID: job.ID, Date: date, Note: shiftNote, DoublePay: shiftDouble}
	if shiftPreset > 0 {
		p, ok := job.PresetAt(shiftPreset - 1)
		if !ok {
			failf(1, "job %s has no preset %d", job.Name, shiftPreset)
		}
		s.Start, s.End = p.Start, p.End
		if s.Note == "" {
			s.Note = p.Label
		}
	}
	if shiftStart != "" {
		if s.Start, err = parseClock(shiftStart); err != nil {
			fail(1, err)
		}
	}
	if shiftEnd != "" {
		if s.End, err = parseClock(shiftEnd); err != nil {
			fail(1, err)
		}
	}
	if s.Start == "" || s.End == "" {
		fail(1, fmt.Errorf("give --start and --end, or --preset"))
	}

	a.Shifts.UpdateFunc(func(cur []model.Shift) []model.Shift { return schedule.AddShifts(cur, s) })
	fmt.Printf("Added %s %s-%s for %s (%s)\n", s.Date, s.Start, s.End, job.Name, s.ID)
	return nil
}

func runShiftEdit(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	s, ok := schedule.FindShift(a.Shifts.Value(), args[0])
	if !ok {
		failf(1, "%v: %s", schedule.ErrShiftNotFound, args[0])
	}

	var err error
	if cmd.Flags().Changed("job") {
		job, err := resolveJob(a.Jobs.Value(), shiftJob)
		if err != nil {
			fail(1, err)
		}
		s.JobID = job.ID
	}
	if cmd.Flags().Changed("date") {
		if s.Date, err = parseDate(shiftDate, time.Now()); err != nil {
			fail(1, err)
		}
	}
	if cmd.Flags().Changed("start") {
		if s.Start, err = parseClock(shiftStart); err != nil {
			fail(1, err)
		}
	}
	if cmd.Flags().Changed("end") {
		if s.End, err = parseClock(shiftEnd); err != nil {
			fail(1, err)
		}
	}
	if cmd.Flags().Changed("note") {
		s.Note = shiftNote
	}
	if cmd.Flags().Changed("double") {
		s.DoublePay = shiftDouble
	}

	shifts, err := schedule.ReplaceShift(a.Shifts.Value(), s)
	if err != nil {
		fail(1, err)
	}
	a.Shifts.Update(shifts)
	fmt.Printf("Updated %s: %s %s-%s\n", s.ID, s.Date, s.Start, s.End)
	return nil
}

func runShiftRm(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	shifts, err := schedule.RemoveShift(a.Shifts.Value(), args[0])
	if err != nil {
		fail(1, err)
	}
	a.Shifts.Update(shifts)
	fmt.Printf("Deleted shift %s\n", args[0])
	return nil
}

func runShiftList(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	jobs := a.Jobs.Value()
	jobID := ""
	if shiftJob != "" {
		job, err := resolveJob(jobs, shiftJob)
		if err != nil {
			fail(1, err)
		}
		jobID = job.ID
	}

	var selected []model.Shift
	if shiftDate != "" {
		date, err := parseDate(shiftDate, time.Now())
		if err != nil {
			fail(1, err)
		}
		selected = schedule.ShiftsOn(a.Shifts.Value(), date, jobID)
	} else {
		ref, err := parseMonth(shiftMonth, time.Now())
		if err != nil {
			fail(1, err)
		}
		selected = shiftsInMonth(a.Shifts.Value(), ref, jobID)
	}

	printShifts(schedule.Sorted(selected), jobs)
	return nil
}

// shiftsInMonth keeps the shifts dated in ref's month, optionally of one job.
func shiftsInMonth(shifts []model.Shift, ref time.Time, jobID string) []model.Shift {
	var out []model.Shift
	for _, s := range shifts {
		if jobID != "" && s.JobID != jobID {
			continue
		}
		d, err := calendar.ParseDateKey(s.Date)
		if err != nil || !calendar.SameMonth(d, ref) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// printShifts groups shifts by date, like the day view.
func printShifts(shifts []model.Shift, jobs []model.Job) {
	if len(shifts) == 0 {
		fmt.Println("No shifts found.")
		return
	}
	names := jobNames(jobs)

	var currentDay string
	for _, s := range shifts {
		if s.Date != currentDay {
			fmt.Println(s.Date)
			currentDay = s.Date
		}
		name, ok := names[s.JobID]
		if !ok {
			name = export.UnknownJob
		}
		extra := ""
		if h, err := income.ShiftDuration(s); err == nil {
			extra = fmt.Sprintf(" (%sh)", formatHours(h))
		}
		if s.DoublePay {
			extra += " x2"
		}
		if s.Note != "" {
			extra += "  " + s.Note
		}
		fmt.Printf("  %s-%s  %-12s%s  [%s]\n", s.Start, s.End, name, extra, s.ID)
	}
}

func runShiftCopy(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	date, err := parseDate(args[0], time.Now())
	if err != nil {
		fail(1, err)
	}
	jobID := ""
	if shiftJob != "" {
		job, err := resolveJob(a.Jobs.Value(), shiftJob)
		if err != nil {
			fail(1, err)
		}
		jobID = job.ID
	}

	day := schedule.ShiftsOn(a.Shifts.Value(), date, jobID)
	if len(day) == 0 {
		failf(1, "no shifts on %s to copy", date)
	}
	a.Clipboard.Update(schedule.Copy(schedule.Sorted(day)))
	fmt.Printf("Copied %d shift(s) from %s\n", len(day), date)
	return nil
}

func runShiftPaste(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	date, err := parseDate(args[0], time.Now())
	if err != nil {
		fail(1, err)
	}
	job, err := resolveJob(a.Jobs.Value(), shiftJob)
	if err != nil {
		fail(1, err)
	}
	clip := a.Clipboard.Value()
	if len(clip) == 0 {
		fail(1, fmt.Errorf("clipboard is empty; copy a day first with: shiftsync shift copy <date>"))
	}

	pasted := schedule.Paste(clip, job.ID, date)
	a.Shifts.UpdateFunc(func(cur []model.Shift) []model.Shift { return schedule.AddShifts(cur, pasted...) })
	fmt.Printf("Pasted %d shift(s) onto %s for %s\n", len(pasted), date, job.Name)
	return nil
}
