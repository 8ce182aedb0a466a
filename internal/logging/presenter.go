// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Verbose reports whether diagnostic output was requested via the environment.
func Verbose() bool {
	return os.Getenv("MEALTRACK_VERBOSE") == "1"
}

// Reporter is the warning/debug sink handed to components that swallow
// errors instead of returning them. All output passes through Mask.
type Reporter struct{}

// Warnf prints a masked warning line.
func (Reporter) Warnf(format string, args ...any) {
	pterm.Warning.Println(Mask(fmt.Sprintf(format, args...)))
}

// Debugf prints a masked diagnostic line to stderr when MEALTRACK_VERBOSE=1.
func (Reporter) Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintln(os.Stderr, "[debug] "+Mask(fmt.Sprintf(format, args...)))
}
