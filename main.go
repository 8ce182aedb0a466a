// Package main is the entry point for the Mealtrack CLI application.
// It provides meal tracking and nutrition lookup from the command line.
package main

import (
	"mealtrack/cli/cmd"
)

// main is the entry point for the Mealtrack CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
