package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runger/lk/internal/discover"
	"github.com/runger/lk/internal/script"
)

// list handles list mode: no args lists scripts, a script lists its
// functions and a script plus function runs it.
func (a *app) list(ctx context.Context, args []string) error {
	exes, err := a.discover()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		printExecutables(a.stdout, exes)
		return nil
	}

	exe, ok := exes.Get(args[0])
	if !ok {
		printExecutables(a.stdout, exes)
		return fmt.Errorf("%w: %s", ErrScriptNotFound, args[0])
	}
	s, err := script.ParseFile(exe.Path)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		printFunctions(a.stdout, exe, s)
		return nil
	}

	fn := args[1]
	if _, ok := s.Function(fn); !ok {
		printFunctions(a.stdout, exe, s)
		return fmt.Errorf("%w: %s in %s", ErrFunctionNotFound, fn, exe.ShortName)
	}
	return a.execute(ctx, exe, fn, args[2:])
}

func printExecutables(w io.Writer, exes discover.Executables) {
	st := newStyles(w)
	if len(exes) == 0 {
		fmt.Fprintln(w, st.dim.Render("no executable scripts found"))
		return
	}
	fmt.Fprintln(w, st.title.Render("Executables"))
	for _, e := range exes {
		fmt.Fprintf(w, "  %s\n", st.name.Render(e.ShortName))
	}
}

// printFunctions prints the script comment and each function with its
// comment, names right-aligned in one column.
func printFunctions(w io.Writer, exe discover.Executable, s *script.Script) {
	st := newStyles(w)
	fmt.Fprintln(w, st.title.Render(exe.ShortName))
	for _, line := range s.Comment {
		fmt.Fprintf(w, "  %s\n", st.comment.Render(line))
	}

	if len(s.Functions) == 0 {
		fmt.Fprintln(w, st.dim.Render("  no functions"))
		return
	}
	fmt.Fprintln(w)

	width := 0
	for _, f := range s.Functions {
		width = max(width, lipgloss.Width(f.Name))
	}
	nameStyle := st.name.Width(width).Align(lipgloss.Right)
	indent := strings.Repeat(" ", width+4)

	for _, f := range s.Functions {
		name := nameStyle.Render(f.Name)
		if len(f.Comment) == 0 {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", name, st.comment.Render(f.Comment[0]))
		for _, line := range f.Comment[1:] {
			fmt.Fprintf(w, "%s%s\n", indent, st.comment.Render(line))
		}
	}
}
