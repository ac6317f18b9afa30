// Package tui provides terminal user interface components for droidtask.
package tui

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the current terminal width.
// Returns 0 if width cannot be determined (callers should treat 0 as narrow).
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// runeWidth returns the visual width of a string (rune count).
func runeWidth(s string) int {
	return len([]rune(s))
}
