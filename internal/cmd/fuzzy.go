package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/muesli/termenv"

	"github.com/runger/lk/internal/discover"
	"github.com/runger/lk/internal/picker"
	"github.com/runger/lk/internal/tty"
)

// target is what a picker row runs.
type target struct {
	exe      discover.Executable
	function string
}

// buildItems flattens every public function of every script into picker
// items, in discovery order.
func buildItems(entries []entry) []picker.Item[target] {
	var items []picker.Item[target]
	for _, e := range entries {
		for _, f := range e.script.Functions {
			items = append(items, picker.NewItem(displayName(e.exe, f.Name), target{exe: e.exe, function: f.Name}))
		}
	}
	return items
}

// fuzzy lets the user pick any function and runs it. Without a usable
// terminal it falls back to listing scripts.
func (a *app) fuzzy(ctx context.Context) error {
	entries, err := a.loadAll(ctx)
	if err != nil {
		return err
	}
	items := buildItems(entries)
	if len(items) == 0 {
		st := newStyles(a.stdout)
		fmt.Fprintln(a.stdout, st.dim.Render("no functions found"))
		return nil
	}

	term, err := a.openTerminal()
	if err != nil {
		a.logger.Warn("fuzzy mode unavailable, falling back to list mode", "error", err)
		st := newStyles(a.stderr)
		fmt.Fprintf(a.stderr, "%s %v, listing scripts instead\n", st.warn.Render("lk:"), err)
		return a.list(ctx, nil)
	}
	defer term.Close()

	choice, ok, err := picker.Find(ctx, term, items, a.pickerOptions(termenv.NewOutput(term.File()).EnvColorProfile()))
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if !ok {
		return nil
	}
	return a.execute(ctx, choice.exe, choice.function, nil)
}

// openTerminal opens /dev/tty and checks it can hold the picker.
func (a *app) openTerminal() (*tty.TTY, error) {
	if err := tty.CheckTERM(); err != nil {
		return nil, err
	}
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	if err := tty.CheckSize(t, a.cfg.Picker.VisibleRows); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (a *app) pickerOptions(profile termenv.Profile) picker.Options {
	return picker.Options{
		VisibleRows:   a.cfg.Picker.VisibleRows,
		EscapeTimeout: time.Duration(a.cfg.Picker.EscapeTimeoutMs) * time.Millisecond,
		PollInterval:  time.Duration(a.cfg.Picker.PollIntervalMs) * time.Millisecond,
		Profile:       profile,
		Logger:        a.logger,
	}
}
