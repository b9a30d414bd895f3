// Package tty drives the controlling terminal for the picker: raw mode,
// polled input, window size and cursor position reports.
package tty

import (
	"fmt"
	"os"
)

// MinWidth is the narrowest terminal the picker will draw on.
const MinWidth = 20

// Sizer reports terminal dimensions.
type Sizer interface {
	Size() (width, height int, err error)
}

// CheckTERM verifies that the TERM environment variable is not "dumb".
func CheckTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}

// CheckSize verifies that the terminal is wide enough and tall enough to
// hold rows list lines plus the prompt.
func CheckSize(s Sizer, rows int) error {
	w, h, err := s.Size()
	if err != nil {
		return err
	}
	if w < MinWidth {
		return fmt.Errorf("terminal too narrow (%d columns, need at least %d)", w, MinWidth)
	}
	if h < rows+1 {
		return fmt.Errorf("terminal too short (%d rows, need at least %d)", h, rows+1)
	}
	return nil
}
