// Package terminal provides small terminal utilities: prompting for visible
// and hidden input, and clearing previously printed lines.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines clears text from the terminal that was previously printed.
// It calculates how many lines were used by the provided text based on the
// current terminal width, then moves up and clears each line. Useful for
// removing prompts that captured sensitive input.
//
// textLength is the total number of characters printed (prompt + user input).
func ClearPreviousLines(textLength int) {
	termWidth := 80 // fallback when size probing fails
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}

	// After Enter the cursor sits on a fresh line below the input, so clear
	// one extra line.
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K") // move to start and clear entire line
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A") // move up one line
		}
	}
}
