// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mealtrack/cli/internal/session"
	"mealtrack/cli/internal/terminal"
)

// registerCmd creates a new Mealtrack account and signs it in. The service
// does not hand out a token on registration, so a regular login follows the
// account creation; the user only sees one flow.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create a new Mealtrack account",
	Long: `The register command creates a new Mealtrack account with your name, email
and password, then signs you in and stores the session securely in the OS
keychain.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, _, err := openSession()
		if err != nil {
			showOperationError(err, "preparing registration")
			return err
		}

		if sess.RedirectFor(session.AreaAuth) == session.RedirectToHome {
			if account := sessionAccount(sess); account.Email != "" {
				fmt.Printf("Already signed in as %s; run 'mealtrack logout' first to register a new account\n", account.Email)
			} else {
				fmt.Println("Already signed in; run 'mealtrack logout' first to register a new account")
			}
			return nil
		}

		fullName, err := terminal.ReadLine("Full name: ")
		if err != nil {
			return err
		}
		email, err := terminal.ReadLine("Email: ")
		if err != nil {
			return err
		}
		password, err := terminal.ReadSecret("Password: ")
		if err != nil {
			return err
		}
		confirm, err := terminal.ReadSecret("Confirm password: ")
		if err != nil {
			return err
		}

		if fullName == "" || email == "" || password == "" {
			return errors.New("name, email and password are required")
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		stopSpinner := startInlineSpinner(os.Stdout, "Creating your account", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		_, err = sess.Register(ctx, fullName, email, password)
		stopSpinner()
		if err != nil {
			showOperationError(err, "creating your account")
			return err
		}

		fmt.Println("🎉 Account created!")
		if account := sessionAccount(sess); account.Email != "" {
			fmt.Println(randomGreeting(account.Email))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
