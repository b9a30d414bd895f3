//go:build !unix

package tty

import (
	"errors"
	"os"
	"time"
)

var errUnsupported = errors.New("interactive mode requires a unix terminal")

// ErrNoCursorReport is returned when the terminal does not answer a cursor
// position query in time.
var ErrNoCursorReport = errors.New("no cursor position report")

// TTY is unavailable on this platform.
type TTY struct{}

// Open always fails on this platform.
func Open() (*TTY, error) { return nil, errUnsupported }

// New returns a TTY whose operations all fail.
func New(in, out *os.File) *TTY { return &TTY{} }

func (t *TTY) File() *os.File { return nil }
func (t *TTY) MakeRaw() error { return errUnsupported }
func (t *TTY) Restore() error { return nil }
func (t *TTY) Write(p []byte) (int, error) { return 0, errUnsupported }
func (t *TTY) ReadInput(time.Duration) ([]byte, error) { return nil, errUnsupported }
func (t *TTY) CursorRow() (int, error) { return 0, errUnsupported }
func (t *TTY) Size() (int, int, error) { return 0, 0, errUnsupported }
func (t *TTY) Close() error { return nil }
