package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/app"
	"github.com/Tiliavir/shiftsync/internal/config"
	"github.com/Tiliavir/shiftsync/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "shiftsync",
	Short: "shiftsync – a shift calendar and income tracker for several jobs",
	Long: `shiftsync tracks work shifts across jobs with hourly or per-shift pay,
computes monthly income and hours, and exports an iCalendar file.
Data is stored locally in ~/.shiftsync/ and only moves to or from the
remote store when you run 'shiftsync upload' or 'shiftsync download'.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.shiftsync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(shiftCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(paintCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the config file; a broken file is a user error.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail(1, err)
	}
	return cfg
}

// openApp loads the config and opens local storage and the collections.
func openApp() *app.App {
	cfg := loadConfig()
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	a, err := app.Open(cfg, logging.New(level, os.Stderr))
	if err != nil {
		fail(2, err)
	}
	return a
}

// fail prints err and exits: 1 for user and config errors, 2 for storage and
// I/O errors.
func fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

func failf(code int, format string, args ...any) {
	fail(code, fmt.Errorf(format, args...))
}
