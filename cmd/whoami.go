package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mealtrack/cli/internal/apperrors"
	"mealtrack/cli/internal/token"
)

var verboseWhoami bool

// whoamiCmd shows the signed-in account. It prefers a fresh profile from the
// service and falls back to the stored account record when offline, so the
// command keeps working without connectivity.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Long: `The whoami command displays the account this machine is signed in as.
It asks the service for the current profile and falls back to the locally
stored account record when the service is unreachable.

If no session exists, it tells you how to sign in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Enable verbose mode for all modules if --verbose is set
		if verboseWhoami {
			os.Setenv("MEALTRACK_VERBOSE", "1")
		}

		sess, api, err := openSession()
		if err != nil {
			showOperationError(err, "opening your session")
			return err
		}
		if !ensureSignedIn(sess) {
			return nil
		}

		if token.Expired(sess.Token(), time.Now()) {
			fmt.Println("⏱️  Your stored session looks expired; you may be asked to log in again.")
		}

		profile, err := api.Me(cmd.Context(), sess.Token())
		if err == nil {
			fmt.Printf("👤 Current user: %s (%s)\n", profile.Email, profile.FullName)
			return nil
		}
		if verboseWhoami {
			fmt.Printf("[DEBUG] whoami: profile fetch failed: %v\n", err)
		}

		// Offline fallback: the record stored at login time.
		if apperrors.IsNetwork(err) {
			if account := sessionAccount(sess); account.Email != "" {
				fmt.Printf("👤 Current user: %s (offline)\n", account.Email)
				return nil
			}
		}

		showOperationError(err, "checking who you are")
		return err
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolVarP(&verboseWhoami, "verbose", "v", false, "Enable verbose debug output")
}
