package picker

import (
	"bytes"
	"time"
)

// DefaultEscapeTimeout is how long a lone ESC may wait for the rest of an
// escape sequence before it is read as the Escape key.
const DefaultEscapeTimeout = 25 * time.Millisecond

// Action is a decoded user intent.
type Action int

const (
	ActionIgnore Action = iota
	ActionAppend
	ActionBackspace
	ActionUp
	ActionDown
	ActionConfirm
	ActionCancel
)

var actionNames = [...]string{
	ActionIgnore:    "ignore",
	ActionAppend:    "append",
	ActionBackspace: "backspace",
	ActionUp:        "up",
	ActionDown:      "down",
	ActionConfirm:   "confirm",
	ActionCancel:    "cancel",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Event is an action plus the character for ActionAppend.
type Event struct {
	Action Action
	Char   byte
}

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyLF        = '\n'
	keyCR        = '\r'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// Arrow keys arrive as CSI sequences, or as SS3 sequences when the
// terminal is in application cursor mode.
var (
	seqCSI     = []byte{keyEscape, '['}
	seqSS3     = []byte{keyEscape, 'O'}
	seqUp      = []byte{keyEscape, '[', 'A'}
	seqDown    = []byte{keyEscape, '[', 'B'}
	seqSS3Up   = []byte{keyEscape, 'O', 'A'}
	seqSS3Down = []byte{keyEscape, 'O', 'B'}
)

// KeyDecoder turns raw terminal bytes into events. It never blocks: a
// pending escape sequence is resolved either by the next byte or by Tick
// once the timeout has passed.
type KeyDecoder struct {
	timeout time.Duration
	pending []byte
	since   time.Time
}

// NewKeyDecoder returns an idle decoder. A non-positive timeout selects
// DefaultEscapeTimeout.
func NewKeyDecoder(timeout time.Duration) *KeyDecoder {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	return &KeyDecoder{timeout: timeout}
}

// Pending reports whether an escape sequence is partially buffered.
func (d *KeyDecoder) Pending() bool {
	return len(d.pending) > 0
}

// Feed decodes one byte received at now.
func (d *KeyDecoder) Feed(b byte, now time.Time) Event {
	if b == keyCtrlC || b == keyCtrlD {
		d.reset()
		return Event{Action: ActionCancel}
	}

	if d.Pending() {
		d.pending = append(d.pending, b)
		d.since = now
		switch {
		case bytes.Equal(d.pending, seqUp), bytes.Equal(d.pending, seqSS3Up):
			d.reset()
			return Event{Action: ActionUp}
		case bytes.Equal(d.pending, seqDown), bytes.Equal(d.pending, seqSS3Down):
			d.reset()
			return Event{Action: ActionDown}
		case bytes.Equal(d.pending, seqCSI), bytes.Equal(d.pending, seqSS3):
			return Event{Action: ActionIgnore}
		default:
			// Unknown or unsupported sequence: drop it along with the
			// byte that broke it.
			d.reset()
			return Event{Action: ActionIgnore}
		}
	}

	switch {
	case b == keyEscape:
		d.pending = append(d.pending[:0], b)
		d.since = now
		return Event{Action: ActionIgnore}
	case b == keyCR || b == keyLF:
		return Event{Action: ActionConfirm}
	case b == keyDelete || b == keyBackspace:
		return Event{Action: ActionBackspace}
	case b >= 0x20 && b < keyDelete:
		return Event{Action: ActionAppend, Char: b}
	default:
		return Event{Action: ActionIgnore}
	}
}

// Remaining returns how long a pending sequence may still wait for its
// next byte. ok is false when nothing is pending.
func (d *KeyDecoder) Remaining(now time.Time) (left time.Duration, ok bool) {
	if !d.Pending() {
		return 0, false
	}
	return max(d.timeout-now.Sub(d.since), 0), true
}

// Tick resolves a pending sequence that has seen no bytes for longer than
// the timeout. A lone ESC becomes ActionCancel; a stale partial sequence
// is discarded.
func (d *KeyDecoder) Tick(now time.Time) Event {
	if !d.Pending() || now.Sub(d.since) <= d.timeout {
		return Event{Action: ActionIgnore}
	}
	lone := len(d.pending) == 1
	d.reset()
	if lone {
		return Event{Action: ActionCancel}
	}
	return Event{Action: ActionIgnore}
}

func (d *KeyDecoder) reset() {
	d.pending = d.pending[:0]
	d.since = time.Time{}
}
