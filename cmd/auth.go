package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/shiftsync/internal/identity"
)

var whoamiRefresh bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with the configured identity provider",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "Fetch the account details from the provider again")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	user, err := a.Identity.SignIn(ctx, os.Stdout)
	if errors.Is(err, identity.ErrNotConfigured) {
		fail(1, err)
	}
	if err != nil {
		failf(1, "sign-in failed: %v", err)
	}
	fmt.Printf("Signed in as %s (%s)\n", user.DisplayName, user.ID)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	if err := a.Identity.SignOut(); err != nil {
		fail(2, err)
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := openApp()
	defer a.Close()

	user := a.Identity.CurrentUser()
	if whoamiRefresh {
		var err error
		user, err = a.Identity.Refresh(context.Background())
		if errors.Is(err, identity.ErrNotSignedIn) {
			user = nil
		} else if err != nil {
			fail(1, err)
		}
	}
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.DisplayName, user.ID)
	if user.Email != "" {
		fmt.Println(user.Email)
	}
	return nil
}
