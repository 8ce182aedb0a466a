// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mealtrack/cli/internal/session"
	"mealtrack/cli/internal/terminal"
)

var loginEmail string

// loginCmd signs in with email and password and stores the session in the
// OS keychain. Credentials are sent to the service as-is; the server is the
// only judge of whether they are valid.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to your Mealtrack account",
	Long: `The login command signs in with your Mealtrack email and password and
stores the resulting session securely in the OS keychain. Subsequent
commands reuse the stored session until you log out.

If you are already signed in, the command says so and leaves the current
session untouched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := openSession()
		if err != nil {
			showOperationError(err, "preparing sign-in")
			return err
		}

		if sess.RedirectFor(session.AreaAuth) == session.RedirectToHome {
			if account := sessionAccount(sess); account.Email != "" {
				fmt.Printf("Already signed in as %s\n", account.Email)
			} else {
				fmt.Println("Already signed in")
			}
			return nil
		}

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			email, err = terminal.ReadLine("Email: ")
			if err != nil {
				return err
			}
		}
		password, err := terminal.ReadSecret("Password: ")
		if err != nil {
			return err
		}
		if email == "" || password == "" {
			return errors.New("email and password are required")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		stopSpinner := startInlineSpinner(os.Stdout, "Signing you in", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		_, err = sess.Login(ctx, email, password)
		stopSpinner()
		if err != nil {
			showOperationError(err, "signing you in")
			return err
		}

		if account := sessionAccount(sess); account.Email != "" {
			fmt.Println(randomGreeting(account.Email))
		} else {
			fmt.Println("✅ Login successful!")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address to sign in with (prompted when omitted)")
}
