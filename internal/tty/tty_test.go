//go:build unix

package tty

import (
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newConsole(t *testing.T) *expect.Console {
	t.Helper()
	c, err := expect.NewConsole(expect.WithDefaultTimeout(2 * time.Second))
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readAtLeast(t *testing.T, tt *TTY, n int) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var got []byte
	for len(got) < n && time.Now().Before(deadline) {
		data, err := tt.ReadInput(10 * time.Millisecond)
		require.NoError(t, err)
		got = append(got, data...)
	}
	return got
}

func TestReadInputRawBytes(t *testing.T) {
	c := newConsole(t)
	tt := New(c.Tty(), c.Tty())
	require.NoError(t, tt.MakeRaw())
	defer tt.Restore()

	_, err := c.Send("\x1b[Aq\x03")
	require.NoError(t, err)

	assert.Equal(t, []byte("\x1b[Aq\x03"), readAtLeast(t, tt, 5))
}

func TestReadInputTimeout(t *testing.T) {
	c := newConsole(t)
	tt := New(c.Tty(), c.Tty())
	require.NoError(t, tt.MakeRaw())
	defer tt.Restore()

	start := time.Now()
	data, err := tt.ReadInput(20 * time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestCursorRow(t *testing.T) {
	c := newConsole(t)
	tt := New(c.Tty(), c.Tty())
	require.NoError(t, tt.MakeRaw())
	defer tt.Restore()

	go func() {
		if _, err := c.ExpectString("\x1b[6n"); err == nil {
			_, _ = c.Send("x\x1b[12;40R")
		}
	}()

	row, err := tt.CursorRow()
	require.NoError(t, err)
	assert.Equal(t, 12, row)

	// Typeahead before the report is not lost.
	assert.Equal(t, []byte("x"), readAtLeast(t, tt, 1))
}

func TestCursorRowNoReport(t *testing.T) {
	c := newConsole(t)
	tt := New(c.Tty(), c.Tty())
	require.NoError(t, tt.MakeRaw())
	defer tt.Restore()

	_, err := tt.CursorRow()
	assert.ErrorIs(t, err, ErrNoCursorReport)
}

func TestSize(t *testing.T) {
	c := newConsole(t)
	ws := &unix.Winsize{Row: 30, Col: 100}
	require.NoError(t, unix.IoctlSetWinsize(int(c.Tty().Fd()), unix.TIOCSWINSZ, ws))

	tt := New(c.Tty(), c.Tty())
	w, h, err := tt.Size()
	require.NoError(t, err)
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)

	assert.NoError(t, CheckSize(tt, 8))
	assert.Error(t, CheckSize(tt, 30))
}

func TestMakeRawIsIdempotent(t *testing.T) {
	c := newConsole(t)
	tt := New(c.Tty(), c.Tty())

	require.NoError(t, tt.MakeRaw())
	require.NoError(t, tt.MakeRaw())
	require.NoError(t, tt.Restore())
	require.NoError(t, tt.Restore())
	require.NoError(t, tt.Close())
}
