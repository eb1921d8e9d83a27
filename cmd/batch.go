package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/batch"
	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
)

var (
	batchJob    string
	batchMonth  string
	batchFile   string
	batchDryRun bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Add many shifts from text, one per line: <day> <start>-<end> [note]",
	Long: `Reads shift lines from --file or standard input, e.g.

  5 0900-1800 inventory
  6 18-22
  12 10:00-22:00

Times may be HH:MM, HHMM or a bare hour. An unreadable time becomes 09:00
and is reported. Lines without a day or a time range are skipped.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchJob, "job", "", "Job id, name or number (default: first job)")
	batchCmd.Flags().StringVar(&batchMonth, "month", "", "Month as YYYY-MM (default: current month)")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "Read lines from this file instead of stdin")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Print the parsed shifts without saving")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ref, err := parseMonth(batchMonth, time.Now())
	if err != nil {
		fail(1, err)
	}

	var in io.Reader = os.Stdin
	if batchFile != "" {
		f, err := os.Open(batchFile)
		if err != nil {
			fail(1, err)
		}
		defer f.Close()
		in = f
	}
	text, err := io.ReadAll(in)
	if err != nil {
		fail(2, err)
	}

	a := openApp()
	defer a.Close()

	job, err := resolveJob(a.Jobs.Value(), batchJob)
	if err != nil {
		fail(1, err)
	}

	res := batch.Parse(string(text), ref.Year(), ref.Month(), job.ID)
	if res.Fallbacks > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d unreadable time(s) replaced with %s\n", res.Fallbacks, batch.DefaultTime)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d line(s) skipped\n", res.Skipped)
	}
	if len(res.Shifts) == 0 {
		fmt.Println("No shifts found.")
		return nil
	}

	if batchDryRun {
		printShifts(schedule.Sorted(res.Shifts), a.Jobs.Value())
		return nil
	}
	a.Shifts.UpdateFunc(func(cur []model.Shift) []model.Shift { return schedule.AddShifts(cur, res.Shifts...) })
	fmt.Printf("Added %d shift(s) for %s\n", len(res.Shifts), job.Name)
	return nil
}
