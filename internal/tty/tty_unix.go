//go:build unix

package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// CursorQueryTimeout bounds the wait for a cursor position report.
const CursorQueryTimeout = 200 * time.Millisecond

const readBufferSize = 256

// ErrNoCursorReport is returned when the terminal does not answer a cursor
// position query in time.
var ErrNoCursorReport = errors.New("no cursor position report")

var cursorReportRE = regexp.MustCompile(`\x1b\[(\d+);(\d+)R`)

// TTY is a terminal opened for interactive use.
type TTY struct {
	in    *os.File
	out   *os.File
	owned bool
	state *term.State

	// pending holds bytes read while waiting for a cursor report; they are
	// handed out by the next ReadInput.
	pending []byte
}

// Open opens the controlling terminal, independent of redirected stdio.
func Open() (*TTY, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("no TTY available: %w", err)
	}
	return &TTY{in: f, out: f, owned: true}, nil
}

// New wraps already-open terminal files. Close does not close them.
func New(in, out *os.File) *TTY {
	return &TTY{in: in, out: out}
}

// File returns the terminal's output file.
func (t *TTY) File() *os.File { return t.out }

// MakeRaw puts the terminal into raw mode. Calling it twice is a no-op.
func (t *TTY) MakeRaw() error {
	if t.state != nil {
		return nil
	}
	st, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("make raw: %w", err)
	}
	t.state = st
	return nil
}

// Restore returns the terminal to the mode saved by MakeRaw.
func (t *TTY) Restore() error {
	if t.state == nil {
		return nil
	}
	st := t.state
	t.state = nil
	if err := term.Restore(int(t.in.Fd()), st); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

// Write implements io.Writer.
func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ReadInput waits up to timeout for input. It returns no bytes and no
// error when nothing arrived.
func (t *TTY) ReadInput(timeout time.Duration) ([]byte, error) {
	if len(t.pending) > 0 {
		p := t.pending
		t.pending = nil
		return p, nil
	}
	return t.read(timeout)
}

func (t *TTY) read(timeout time.Duration) ([]byte, error) {
	fd := int(t.in.Fd())
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	if fds[0].Revents&unix.POLLIN == 0 && fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return nil, io.EOF
	}

	buf := make([]byte, readBufferSize)
	n, err = unix.Read(fd, buf)
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return nil, nil
		}
		return nil, fmt.Errorf("read: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	return buf[:n], nil
}

// CursorRow asks the terminal where the cursor is and returns its 1-based
// row. The terminal must be in raw mode. Keystrokes that arrive before the
// report are kept for ReadInput.
func (t *TTY) CursorRow() (int, error) {
	if _, err := t.out.Write([]byte("\x1b[6n")); err != nil {
		return 0, fmt.Errorf("query cursor position: %w", err)
	}

	deadline := time.Now().Add(CursorQueryTimeout)
	var buf []byte
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.pending = append(t.pending, buf...)
			return 0, ErrNoCursorReport
		}
		data, err := t.read(remaining)
		if err != nil {
			t.pending = append(t.pending, buf...)
			return 0, err
		}
		buf = append(buf, data...)

		loc := cursorReportRE.FindSubmatchIndex(buf)
		if loc == nil {
			continue
		}
		row, err := strconv.Atoi(string(buf[loc[2]:loc[3]]))
		t.pending = append(t.pending, buf[:loc[0]]...)
		t.pending = append(t.pending, buf[loc[1]:]...)
		if err != nil {
			return 0, fmt.Errorf("parse cursor report: %w", err)
		}
		return row, nil
	}
}

// Size returns the terminal width and height.
func (t *TTY) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot get terminal size: %w", err)
	}
	return int(ws.Col), int(ws.Row), nil
}

// Close restores the terminal and closes it if Open created it.
func (t *TTY) Close() error {
	err := t.Restore()
	if t.owned {
		if cerr := t.in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
