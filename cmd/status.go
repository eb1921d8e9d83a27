package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account and whether local changes are uploaded",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	if user := a.Identity.CurrentUser(); user != nil {
		fmt.Printf("Account: %s (%s)\n", user.DisplayName, user.ID)
	} else {
		fmt.Println("Account: not signed in")
	}
	switch {
	case a.Remote == nil:
		fmt.Println("Remote:  not configured")
	case strings.HasPrefix(a.Config.Remote.URL, "file://"):
		fmt.Printf("Remote:  %s\n", a.Config.Remote.URL)
	default:
		fmt.Printf("Remote:  %s (bucket %s)\n", a.Config.Remote.URL, a.Config.Remote.Bucket)
	}
	fmt.Printf("Storage: %s\n", a.Config.Storage.Backend)
	fmt.Println()

	for _, c := range a.Collections() {
		st := c.Status()
		switch {
		case st.Synced:
			fmt.Printf("  %-7s in sync (%s)\n", c.Name, st.SyncedAt.Local().Format("2006-01-02 15:04"))
		case st.SyncedAt.IsZero():
			fmt.Printf("  %-7s never synced\n", c.Name)
		default:
			fmt.Printf("  %-7s modified locally since %s\n", c.Name, st.SyncedAt.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}
