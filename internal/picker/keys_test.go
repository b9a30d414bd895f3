package picker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func feedAll(d *KeyDecoder, s string, at time.Time) []Event {
	var events []Event
	for i := 0; i < len(s); i++ {
		events = append(events, d.Feed(s[i], at))
	}
	return events
}

func actions(events []Event) []Action {
	out := make([]Action, 0, len(events))
	for _, e := range events {
		if e.Action != ActionIgnore {
			out = append(out, e.Action)
		}
	}
	return out
}

func TestKeyDecoderIdleKeys(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want Event
	}{
		{"letter", 'a', Event{Action: ActionAppend, Char: 'a'}},
		{"space", ' ', Event{Action: ActionAppend, Char: ' '}},
		{"tilde", '~', Event{Action: ActionAppend, Char: '~'}},
		{"carriage return", '\r', Event{Action: ActionConfirm}},
		{"line feed", '\n', Event{Action: ActionConfirm}},
		{"delete", 0x7f, Event{Action: ActionBackspace}},
		{"backspace", 0x08, Event{Action: ActionBackspace}},
		{"ctrl-c", 0x03, Event{Action: ActionCancel}},
		{"ctrl-d", 0x04, Event{Action: ActionCancel}},
		{"tab", '\t', Event{Action: ActionIgnore}},
		{"non-ascii", 0xc3, Event{Action: ActionIgnore}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewKeyDecoder(0)
			assert.Equal(t, tt.want, d.Feed(tt.in, t0))
			assert.False(t, d.Pending())
		})
	}
}

func TestKeyDecoderArrowKeys(t *testing.T) {
	d := NewKeyDecoder(0)
	assert.Equal(t, []Action{ActionUp}, actions(feedAll(d, "\x1b[A", t0)))
	assert.Equal(t, []Action{ActionDown}, actions(feedAll(d, "\x1b[B", t0)))
	assert.False(t, d.Pending())
}

func TestKeyDecoderArrowByteByByteWithinTimeout(t *testing.T) {
	d := NewKeyDecoder(25 * time.Millisecond)
	now := t0
	var got []Action
	for _, b := range []byte("\x1b[A") {
		got = append(got, actions([]Event{d.Feed(b, now)})...)
		now = now.Add(20 * time.Millisecond)
		got = append(got, actions([]Event{d.Tick(now)})...)
	}
	assert.Equal(t, []Action{ActionUp}, got)
}

func TestKeyDecoderLoneEscapeTimesOut(t *testing.T) {
	d := NewKeyDecoder(25 * time.Millisecond)

	assert.Equal(t, ActionIgnore, d.Feed(0x1b, t0).Action)
	assert.True(t, d.Pending())

	assert.Equal(t, ActionIgnore, d.Tick(t0.Add(10*time.Millisecond)).Action)
	assert.Equal(t, ActionIgnore, d.Tick(t0.Add(25*time.Millisecond)).Action)
	assert.Equal(t, ActionCancel, d.Tick(t0.Add(26*time.Millisecond)).Action)
	assert.False(t, d.Pending())
}

func TestKeyDecoderStalePartialSequenceIsDropped(t *testing.T) {
	d := NewKeyDecoder(25 * time.Millisecond)
	feedAll(d, "\x1b[", t0)

	assert.Equal(t, ActionIgnore, d.Tick(t0.Add(time.Second)).Action)
	assert.False(t, d.Pending())
	assert.Equal(t, Event{Action: ActionAppend, Char: 'x'}, d.Feed('x', t0.Add(time.Second)))
}

func TestKeyDecoderUnknownSequenceIsDiscarded(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"right arrow", "\x1b[C"},
		{"alt-x", "\x1bx"},
		{"double escape", "\x1b\x1b"},
		{"ss3 right", "\x1bOC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewKeyDecoder(0)
			events := feedAll(d, tt.in, t0)
			require.Len(t, events, len(tt.in))
			for _, e := range events {
				assert.Equal(t, Event{Action: ActionIgnore}, e)
			}
			assert.False(t, d.Pending())
		})
	}
}

func TestKeyDecoderApplicationCursorArrows(t *testing.T) {
	d := NewKeyDecoder(0)
	assert.Equal(t, []Action{ActionUp}, actions(feedAll(d, "\x1bOA", t0)))
	assert.Equal(t, []Action{ActionDown}, actions(feedAll(d, "\x1bOB", t0)))
	assert.False(t, d.Pending())
}

func TestKeyDecoderRemaining(t *testing.T) {
	d := NewKeyDecoder(25 * time.Millisecond)
	_, ok := d.Remaining(t0)
	assert.False(t, ok)

	d.Feed(0x1b, t0)
	left, ok := d.Remaining(t0.Add(10 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 15*time.Millisecond, left)

	left, _ = d.Remaining(t0.Add(time.Second))
	assert.Zero(t, left)
}

func TestKeyDecoderCancelInsideSequence(t *testing.T) {
	d := NewKeyDecoder(0)
	feedAll(d, "\x1b[", t0)
	assert.Equal(t, ActionCancel, d.Feed(0x03, t0).Action)
	assert.False(t, d.Pending())
}

func TestKeyDecoderTextAfterSequence(t *testing.T) {
	d := NewKeyDecoder(0)
	got := actions(feedAll(d, "ab\x1b[Bc\r", t0))
	assert.Equal(t, []Action{ActionAppend, ActionAppend, ActionDown, ActionAppend, ActionConfirm}, got)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "up", ActionUp.String())
	assert.Equal(t, "cancel", ActionCancel.String())
	assert.Equal(t, "unknown", Action(99).String())
}
