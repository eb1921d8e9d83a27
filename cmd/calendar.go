package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/income"
	"github.com/Tiliavir/shiftsync/internal/model"
)

var (
	calendarMonth string
	calendarJob   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month as a calendar grid with shift counts and totals",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month as YYYY-MM (default: current month)")
	calendarCmd.Flags().StringVar(&calendarJob, "job", "", "Only count this job's shifts")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := time.Now()
	ref, err := parseMonth(calendarMonth, now)
	if err != nil {
		fail(1, err)
	}

	a := openApp()
	defer a.Close()

	jobs := a.Jobs.Value()
	shifts := a.Shifts.Value()
	if calendarJob != "" {
		job, err := resolveJob(jobs, calendarJob)
		if err != nil {
			fail(1, err)
		}
		shifts = shiftsInMonth(shifts, ref, job.ID)
	}

	renderMonth(os.Stdout, ref, now, shifts)
	stats := income.MonthlyStats(shifts, jobs, ref)
	fmt.Println()
	fmt.Printf("Income: %d   Hours: %d   Shifts: %d\n", stats.TotalIncome(), stats.TotalHours(), stats.Shifts)
	return nil
}

// renderMonth prints a Sunday-first grid. Each current-month day shows its
// number followed by the number of shifts, today is marked with '>', and
// padding days from neighbouring months are shown as '.'.
func renderMonth(w io.Writer, ref, today time.Time, shifts []model.Shift) {
	counts := map[string]int{}
	for _, s := range shifts {
		counts[s.Date]++
	}

	fmt.Fprintf(w, "%s %d\n", ref.Month(), ref.Year())
	fmt.Fprintln(w, "  Sun   Mon   Tue   Wed   Thu   Fri   Sat")
	for _, week := range calendar.Weeks(calendar.MonthGrid(ref, today)) {
		var line strings.Builder
		for _, d := range week {
			line.WriteString(dayCell(d, counts[d.Key]))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func dayCell(d calendar.Day, count int) string {
	if !d.CurrentMonth {
		return "    . "
	}
	mark := " "
	if d.Today {
		mark = ">"
	}
	shifts := "  "
	switch {
	case count > 9:
		shifts = "+9"
	case count > 0:
		shifts = fmt.Sprintf("*%d", count)
	}
	return fmt.Sprintf("%s%2d%s ", mark, d.Date.Day(), shifts)
}
