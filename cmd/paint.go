package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/paint"
)

var (
	paintJob    string
	paintPreset int
)

var paintCmd = &cobra.Command{
	Use:   "paint <date>...",
	Short: "Toggle a preset shift on each date: add it if missing, remove it if present",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPaint,
}

func init() {
	paintCmd.Flags().StringVar(&paintJob, "job", "", "Job id, name or number (default: first job)")
	paintCmd.Flags().IntVar(&paintPreset, "preset", 1, "Preset number of the job")
}

func runPaint(cmd *cobra.Command, args []string) error {
	now := time.Now()
	dates := make([]string, 0, len(args))
	for _, arg := range args {
		d, err := parseDate(arg, now)
		if err != nil {
			fail(1, err)
		}
		dates = append(dates, d)
	}

	a := openApp()
	defer a.Close()

	job, err := resolveJob(a.Jobs.Value(), paintJob)
	if err != nil {
		fail(1, err)
	}
	p, ok := job.PresetAt(paintPreset - 1)
	if !ok {
		failf(1, "job %s has no preset %d", job.Name, paintPreset)
	}

	brush := paint.Brush{Job: job, Preset: paintPreset - 1}
	shifts, strokes := brush.Paint(a.Shifts.Value(), dates...)
	a.Shifts.Update(shifts)

	for _, st := range strokes {
		fmt.Printf("%-7s %s %s-%s %s\n", st.Action, st.Shift.Date, p.Start, p.End, job.Name)
	}
	return nil
}
