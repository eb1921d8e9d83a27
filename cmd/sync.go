package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/app"
	"github.com/Tiliavir/shiftsync/internal/syncstore"
)

var syncTimeout time.Duration

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Replace the remote copy of jobs and shifts with the local data",
	Args:  cobra.NoArgs,
	RunE:  runUpload,
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Replace the local jobs and shifts with the remote copy",
	Args:  cobra.NoArgs,
	RunE:  runDownload,
}

func init() {
	for _, c := range []*cobra.Command{uploadCmd, downloadCmd} {
		c.Flags().DurationVar(&syncTimeout, "timeout", 30*time.Second, "Give up after this long")
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	return transfer("Uploaded", func(ctx context.Context, c app.Collection) error {
		return c.Upload(ctx)
	})
}

func runDownload(cmd *cobra.Command, args []string) error {
	return transfer("Downloaded", func(ctx context.Context, c app.Collection) error {
		return c.Download(ctx)
	})
}

// transfer runs op on every synchronized collection and exits with the
// resulting code after closing the app.
func transfer(verb string, op func(context.Context, app.Collection) error) error {
	a := openApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	code := transferAll(ctx, a.Collections(), verb, op, os.Stdout, os.Stderr)
	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code = max(code, 2)
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// transferAll reports each collection's result and returns the exit code.
// Setup problems stop at the first collection; other failures are reported
// and the remaining collections are still tried.
func transferAll(ctx context.Context, collections []app.Collection, verb string,
	op func(context.Context, app.Collection) error, stdout, stderr io.Writer) int {
	code := 0
	for _, c := range collections {
		err := op(ctx, c)
		switch {
		case err == nil:
			fmt.Fprintf(stdout, "%s %s.\n", verb, c.Name)
		case errors.Is(err, syncstore.ErrNotAuthenticated):
			fmt.Fprintln(stderr, "Not signed in. Run: shiftsync login")
			return 1
		case errors.Is(err, syncstore.ErrNotConfigured):
			fmt.Fprintln(stderr, "No remote store configured. Set remote.url in the config or run: shiftsync config remote import")
			return 1
		case errors.Is(err, syncstore.ErrNoRemoteData):
			fmt.Fprintf(stderr, "%s: nothing uploaded yet; local data kept\n", c.Name)
			code = max(code, 1)
		default:
			fmt.Fprintf(stderr, "%s: %v\n", c.Name, err)
			code = 2
		}
	}
	return code
}
