package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/calendar"
	"github.com/Tiliavir/shiftsync/internal/export"
)

var (
	exportFormat string
	exportOut    string
	exportMonth  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export shifts as iCalendar, CSV or JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "ics", "Output format: ics, csv, json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to this file (default: shiftsync_calendar_<date>.ics for ics, stdout otherwise; - for stdout)")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Only export this month (YYYY-MM)")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a := openApp()
	defer a.Close()

	shifts := a.Shifts.Value()
	if exportMonth != "" {
		ref, err := parseMonth(exportMonth, now)
		if err != nil {
			fail(1, err)
		}
		shifts = shiftsInMonth(shifts, ref, "")
	}
	jobs := a.Jobs.Value()

	var buf bytes.Buffer
	out := exportOut
	switch exportFormat {
	case "ics":
		buf.WriteString(export.ICS(shifts, jobs))
		if out == "" {
			out = fmt.Sprintf("shiftsync_calendar_%s.ics", calendar.DateKey(now))
		}
	case "csv":
		if err := export.CSV(&buf, shifts, jobs); err != nil {
			fail(2, err)
		}
	case "json":
		if err := export.JSON(&buf, shifts, jobs); err != nil {
			fail(2, err)
		}
	default:
		failf(1, "unknown format %q: want ics, csv or json", exportFormat)
	}

	if out == "" || out == "-" {
		os.Stdout.Write(buf.Bytes())
		return nil
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		fail(2, fmt.Errorf("write %s: %w", out, err))
	}
	fmt.Printf("Exported %d shift(s) to %s\n", len(shifts), out)
	return nil
}
