package picker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/muesli/termenv"
)

const (
	// DefaultVisibleRows is the viewport capacity when none is given.
	DefaultVisibleRows = 8
	// DefaultPollInterval bounds how long one loop iteration waits for input.
	DefaultPollInterval = 5 * time.Millisecond
)

// Options tune a picker session. The zero value is usable.
type Options struct {
	VisibleRows   int
	EscapeTimeout time.Duration
	PollInterval  time.Duration
	Prompt        string
	// Profile is the color profile used for styling.
	Profile termenv.Profile
	Matcher Matcher
	Logger  *slog.Logger
	// Now is the clock used for escape timeouts.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.VisibleRows < 1 {
		o.VisibleRows = DefaultVisibleRows
	}
	if o.EscapeTimeout <= 0 {
		o.EscapeTimeout = DefaultEscapeTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Matcher == nil {
		o.Matcher = FuzzyMatcher{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// session is the state of one Find call.
type session[T any] struct {
	query   string
	items   []Item[T]
	ranked  []Item[T]
	view    *Viewport[T]
	term    Terminal
	render  *Renderer
	decoder *KeyDecoder
	matcher Matcher
	log     *slog.Logger
}

// Find lets the user pick one item interactively on term. It returns the
// chosen payload and true, or false when the user cancels or confirms with
// nothing matching. The terminal is restored on every return path.
func Find[T any](ctx context.Context, term Terminal, items []Item[T], opts Options) (_ T, _ bool, err error) {
	var zero T
	opts = opts.withDefaults()

	if err := term.MakeRaw(); err != nil {
		_ = term.Restore()
		return zero, false, fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		if rerr := term.Restore(); rerr != nil && err == nil {
			err = fmt.Errorf("restore terminal: %w", rerr)
		}
	}()

	anchor, cerr := term.CursorRow()
	if cerr != nil {
		opts.Logger.Warn("cursor position query failed, drawing from the top row", "error", cerr)
		anchor = 1
	}
	width, height, serr := term.Size()
	if serr != nil {
		opts.Logger.Debug("terminal size unavailable", "error", serr)
		width, height = 0, 0
	}

	s := &session[T]{
		items: append([]Item[T](nil), items...),
		view:  NewViewport[T](opts.VisibleRows),
		term:  term,
		render: NewRenderer(term, RendererConfig{
			Capacity:  opts.VisibleRows,
			AnchorRow: anchor,
			Width:     width,
			Height:    height,
			Prompt:    opts.Prompt,
			Profile:   opts.Profile,
		}),
		decoder: NewKeyDecoder(opts.EscapeTimeout),
		matcher: opts.Matcher,
		log:     opts.Logger,
	}
	defer func() {
		if cerr := s.render.Clear(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	s.log.Debug("picker session started", "items", len(items), "rows", opts.VisibleRows, "anchor_row", anchor)
	return s.run(ctx, opts)
}

// outcome is what an event did to the session.
type outcome int

const (
	outcomeContinue outcome = iota
	outcomePicked
	outcomeDismissed
)

func (s *session[T]) run(ctx context.Context, opts Options) (T, bool, error) {
	var zero T

	s.refresh()
	if err := s.draw(); err != nil {
		return zero, false, err
	}

	var now time.Time
	for {
		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		default:
		}

		data, err := s.term.ReadInput(s.readTimeout(opts.PollInterval, now))
		if err != nil {
			return zero, false, fmt.Errorf("read input: %w", err)
		}
		now = opts.Now()

		// An escape that timed out before these bytes arrived is a lone
		// ESC, so it must resolve before they are fed.
		events := make([]Event, 0, len(data)+1)
		events = append(events, s.decoder.Tick(now))
		for _, b := range data {
			events = append(events, s.decoder.Feed(b, now))
		}

		for _, ev := range events {
			out, err := s.handle(ev)
			if err != nil {
				return zero, false, err
			}
			switch out {
			case outcomePicked:
				payload, _ := s.view.Selected()
				return payload, true, nil
			case outcomeDismissed:
				return zero, false, nil
			}
		}
	}
}

// readTimeout bounds the next read so a pending escape is resolved on time.
func (s *session[T]) readTimeout(poll time.Duration, now time.Time) time.Duration {
	if left, ok := s.decoder.Remaining(now); ok {
		return min(poll, left)
	}
	return poll
}

// handle applies one event and redraws when anything visible changed.
func (s *session[T]) handle(ev Event) (outcome, error) {
	switch ev.Action {
	case ActionAppend:
		s.query += string(ev.Char)
		s.refresh()
	case ActionBackspace:
		if s.query == "" {
			return outcomeContinue, nil
		}
		s.query = s.query[:len(s.query)-1]
		s.refresh()
	case ActionUp:
		s.view.MoveUp(s.ranked)
	case ActionDown:
		s.view.MoveDown(s.ranked)
	case ActionConfirm:
		_, ok := s.view.Selected()
		s.log.Debug("picker confirmed", "query", s.query, "selected", ok)
		if !ok {
			return outcomeDismissed, nil
		}
		return outcomePicked, nil
	case ActionCancel:
		s.log.Debug("picker cancelled", "query", s.query)
		return outcomeDismissed, nil
	default:
		return outcomeContinue, nil
	}
	return outcomeContinue, s.draw()
}

// refresh rescores every item against the query and rebuilds the window.
func (s *session[T]) refresh() {
	Rescore(s.matcher, s.items, s.query)
	s.ranked = Rank(s.items)
	s.view.Rebuild(s.ranked)
}

func (s *session[T]) draw() error {
	if err := s.render.Render(rowsOf(s.view.Contents(), s.view.SelectedIndex()), s.query); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
