// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealtrack/cli/internal/keychain"
	"mealtrack/cli/internal/logging"
	"mealtrack/cli/internal/session"
)

// logoutCmd removes the stored session. It always leaves the process signed
// out, even when the keychain refuses to delete: a stale stored credential
// is annoying, a logout that claims to have failed is worse.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Long: `The logout command removes the stored session token and cached account
record from the OS keychain and signs this machine out.

The export database connection saved with 'mealtrack connect' is kept, so
signing back in does not require configuring the database again.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			// No keychain means nothing durable to clear.
			fmt.Println("✅ You've been signed out")
			return nil
		}

		sess := session.NewManager(nil, km, logging.Reporter{})
		sess.Restore()
		sess.Logout()

		fmt.Println("✅ You've been signed out and your stored session removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
