package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/income"
	"github.com/Tiliavir/shiftsync/internal/model"
)

var (
	statsMonth string
	statsYear  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show income and hours for a month (default) or a year",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsMonth, "month", "", "Month as YYYY-MM (default: current month)")
	statsCmd.Flags().StringVar(&statsYear, "year", "", "Whole year, e.g. 2024")
	statsCmd.MarkFlagsMutuallyExclusive("month", "year")
}

func runStats(cmd *cobra.Command, args []string) error {
	now := time.Now()

	var (
		label string
		ref   time.Time
		err   error
	)
	yearly := cmd.Flags().Changed("year")
	if yearly {
		ref, err = parseYear(statsYear, now)
		label = ref.Format("2006")
	} else {
		ref, err = parseMonth(statsMonth, now)
		label = ref.Format(monthLayout)
	}
	if err != nil {
		fail(1, err)
	}

	a := openApp()
	defer a.Close()

	jobs := a.Jobs.Value()
	var stats income.Stats
	if yearly {
		stats = income.YearStats(a.Shifts.Value(), jobs, ref)
	} else {
		stats = income.MonthlyStats(a.Shifts.Value(), jobs, ref)
	}

	printStats(label, stats, jobs)
	return nil
}

func printStats(label string, stats income.Stats, jobs []model.Job) {
	fmt.Printf("Stats %s\n\n", label)
	if stats.Shifts == 0 {
		fmt.Println("No paid shifts.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tSHIFTS\tHOURS\tINCOME")
		for _, j := range jobs {
			js, ok := stats.ByJob[j.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", j.Name, js.Shifts, formatHours(js.Hours), int64(math.Floor(js.Income)))
		}
		fmt.Fprintf(w, "Total\t%d\t%d\t%d\n", stats.Shifts, stats.TotalHours(), stats.TotalIncome())
		w.Flush()
	}
	if stats.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d shift(s) with an unreadable date or time were not counted\n", stats.Skipped)
	}
}
