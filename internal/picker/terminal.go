package picker

import (
	"io"
	"time"
)

// Terminal is the raw terminal a picker session draws on.
type Terminal interface {
	io.Writer

	// MakeRaw switches the terminal to raw mode. Restore undoes it and
	// must be safe to call after a failed or partial MakeRaw.
	MakeRaw() error
	Restore() error

	// ReadInput waits up to timeout for input and returns whatever bytes
	// are available. It returns no bytes and no error on timeout.
	ReadInput(timeout time.Duration) ([]byte, error)

	// CursorRow returns the 1-based row of the cursor.
	CursorRow() (int, error)

	// Size returns the terminal dimensions in columns and rows.
	Size() (width, height int, err error)
}
