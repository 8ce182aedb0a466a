// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Mealtrack CLI.
// It implements subcommands for account management, food search, meal
// logging, nutrition summaries and history export using the Cobra CLI
// framework. The package handles command parsing, execution, and provides
// a rich terminal UI with spinners and progress indicators.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mealtrack/cli/internal/backend"
	"mealtrack/cli/internal/endpoints"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Mealtrack CLI application.
var rootCmd = &cobra.Command{
	Use:           "mealtrack",
	Short:         "Mealtrack CLI for tracking meals and nutrition",
	Long:          `Mealtrack is a command-line tool for tracking what you eat: search the food catalog, log meals, review nutrition summaries and export your history to your own database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := context.Background()
			res, err := endpoints.Resolve()
			if err != nil {
				return err
			}

			api := backend.New(res.BaseURL, res.Paths)
			serviceVersion, err := api.Health(ctx)
			if err != nil {
				serviceVersion = "unknown"
			}

			fmt.Printf("mealtrack %s\nservice %s\n", Version, serviceVersion)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and service version information")
}
