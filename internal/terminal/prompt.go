// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Shared reader so consecutive prompts do not lose buffered piped input.
var stdin = bufio.NewReader(os.Stdin)

// ReadLine prints the prompt and reads one line from stdin, trimmed.
func ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret prints the prompt and reads one line with terminal echo
// disabled. When stdin is not a terminal (pipes, tests) it degrades to a
// plain line read.
func ReadSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	b, err := term.ReadPassword(fd)
	fmt.Println() // ReadPassword swallows the user's newline
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
