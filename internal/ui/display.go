package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 100

// DisplayContext holds display parameters for the current stdout.
type DisplayContext struct {
	TermWidth int  // detected or fallback terminal width
	IsTTY     bool // whether stdout is a terminal
}

// NewDisplayContext detects the terminal attached to stdout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	isTTY := term.IsTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	return &DisplayContext{
		TermWidth: width,
		IsTTY:     isTTY,
	}
}

// AvailableWidth returns the usable width after accounting for left margin.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > 0 {
		return w
	}
	return DefaultTermWidth
}
