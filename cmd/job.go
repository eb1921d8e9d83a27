package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/model"
	"github.com/Tiliavir/shiftsync/internal/schedule"
)

var (
	jobName    string
	jobColor   string
	jobManager string
	jobPayType string
	jobRate    float64
	jobNoPay   bool

	presetLabel string
	presetStart string
	presetEnd   string
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage jobs and their shift presets",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobList,
}

var jobAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a job (hourly 183 with one preset unless flags say otherwise)",
	Args:  cobra.NoArgs,
	RunE:  runJobAdd,
}

var jobSetCmd = &cobra.Command{
	Use:   "set <job>",
	Short: "Change a job's name, color, manager or pay",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobSet,
}

var jobRmCmd = &cobra.Command{
	Use:   "rm <job>",
	Short: "Delete a job and all of its shifts",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobRm,
}

var jobPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage a job's shift presets",
}

var jobPresetAddCmd = &cobra.Command{
	Use:   "add <job>",
	Short: "Add a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobPresetAdd,
}

var jobPresetRmCmd = &cobra.Command{
	Use:   "rm <job> <preset-number>",
	Short: "Remove a preset (numbers as shown by 'job list')",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobPresetRm,
}

func init() {
	for _, c := range []*cobra.Command{jobAddCmd, jobSetCmd} {
		c.Flags().StringVar(&jobName, "name", "", "Job name")
		c.Flags().StringVar(&jobColor, "color", "", "Display color")
		c.Flags().StringVar(&jobManager, "manager", "", "Manager name")
		c.Flags().StringVar(&jobPayType, "pay-type", "", "Pay type: hourly or perShift")
		c.Flags().Float64Var(&jobRate, "rate", 0, "Hourly rate or flat amount per shift")
	}
	jobSetCmd.Flags().BoolVar(&jobNoPay, "no-pay", false, "Remove the pay rate; the job earns nothing")

	jobPresetAddCmd.Flags().StringVar(&presetLabel, "label", "", "Preset label, used as the shift note")
	jobPresetAddCmd.Flags().StringVar(&presetStart, "start", "", "Start time (HH:MM)")
	jobPresetAddCmd.Flags().StringVar(&presetEnd, "end", "", "End time (HH:MM)")
	_ = jobPresetAddCmd.MarkFlagRequired("start")
	_ = jobPresetAddCmd.MarkFlagRequired("end")

	jobPresetCmd.AddCommand(jobPresetAddCmd, jobPresetRmCmd)
	jobCmd.AddCommand(jobListCmd, jobAddCmd, jobSetCmd, jobRmCmd, jobPresetCmd)
}

func runJobList(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	printJobs(a.Jobs.Value())
	return nil
}

func printJobs(jobs []model.Job) {
	if len(jobs) == 0 {
		fmt.Println("No jobs defined.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tNAME\tPAY\tCOLOR\tMANAGER\tPRESETS")
	for i, j := range jobs {
		presets := make([]string, len(j.Presets))
		for k, p := range j.Presets {
			presets[k] = fmt.Sprintf("%d) %s %s-%s", k+1, p.Label, p.Start, p.End)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, j.ID, j.Name, formatPay(j.Pay), j.Color, j.ManagerName, strings.Join(presets, "; "))
	}
	w.Flush()
}

// applyPayFlags updates the pay model from --pay-type and --rate, keeping
// whichever of the two was not given.
func applyPayFlags(cmd *cobra.Command, job *model.Job) error {
	typeSet := cmd.Flags().Changed("pay-type")
	rateSet := cmd.Flags().Changed("rate")
	if !typeSet && !rateSet {
		return nil
	}
	payType := model.PayTypeHourly
	if job.Pay != nil {
		payType = job.Pay.Type()
	}
	if typeSet {
		payType = model.PayType(jobPayType)
	}
	rate := model.Rate(job.Pay)
	if rateSet {
		if jobRate < 0 {
			return fmt.Errorf("rate must not be negative")
		}
		rate = jobRate
	}
	pay, err := model.NewPay(payType, rate)
	if err != nil {
		return err
	}
	job.Pay = pay
	return nil
}

func applyJobFlags(cmd *cobra.Command, job *model.Job) error {
	if cmd.Flags().Changed("name") {
		if strings.TrimSpace(jobName) == "" {
			return fmt.Errorf("name must not be empty")
		}
		job.Name = strings.TrimSpace(jobName)
	}
	if cmd.Flags().Changed("color") {
		job.Color = jobColor
	}
	if cmd.Flags().Changed("manager") {
		job.ManagerName = jobManager
	}
	return applyPayFlags(cmd, job)
}

func runJobAdd(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	jobs := a.Jobs.Value()
	job := schedule.NewJob(jobs)
	if err := applyJobFlags(cmd, &job); err != nil {
		fail(1, err)
	}
	updated, err := schedule.AddJob(jobs, job)
	if err != nil {
		fail(1, err)
	}
	a.Jobs.Update(updated)

	fmt.Printf("Added job %q (%s, %s)\n", job.Name, job.ID, formatPay(job.Pay))
	return nil
}

func runJobSet(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	jobs := a.Jobs.Value()
	job, err := resolveJob(jobs, args[0])
	if err != nil {
		fail(1, err)
	}
	if err := applyJobFlags(cmd, &job); err != nil {
		fail(1, err)
	}
	if jobNoPay {
		job.Pay = nil
	}
	updated, err := schedule.ReplaceJob(jobs, job)
	if err != nil {
		fail(1, err)
	}
	a.Jobs.Update(updated)

	fmt.Printf("Updated job %q (%s)\n", job.Name, formatPay(job.Pay))
	return nil
}

func runJobRm(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	job, err := resolveJob(a.Jobs.Value(), args[0])
	if err != nil {
		fail(1, err)
	}
	shifts := a.Shifts.Value()
	jobs, kept, err := schedule.RemoveJob(a.Jobs.Value(), shifts, job.ID)
	if err != nil {
		fail(1, err)
	}
	a.Jobs.Update(jobs)
	if len(kept) != len(shifts) {
		a.Shifts.Update(kept)
	}

	fmt.Printf("Deleted job %q and %d shift(s)\n", job.Name, len(shifts)-len(kept))
	return nil
}

func runJobPresetAdd(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	job, err := resolveJob(a.Jobs.Value(), args[0])
	if err != nil {
		fail(1, err)
	}
	start, err := parseClock(presetStart)
	if err != nil {
		fail(1, err)
	}
	end, err := parseClock(presetEnd)
	if err != nil {
		fail(1, err)
	}
	label := presetLabel
	if label == "" {
		label = start + "-" + end
	}

	jobs, err := schedule.AddPreset(a.Jobs.Value(), job.ID, model.Preset{Label: label, Start: start, End: end})
	if err != nil {
		fail(1, err)
	}
	a.Jobs.Update(jobs)

	fmt.Printf("Added preset %q (%s-%s) to %s\n", label, start, end, job.Name)
	return nil
}

func runJobPresetRm(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	job, err := resolveJob(a.Jobs.Value(), args[0])
	if err != nil {
		fail(1, err)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		failf(1, "invalid preset number %q", args[1])
	}
	jobs, err := schedule.RemovePreset(a.Jobs.Value(), job.ID, n-1)
	if err != nil {
		fail(1, err)
	}
	a.Jobs.Update(jobs)

	fmt.Printf("Removed preset %d from %s\n", n, job.Name)
	return nil
}
