package cmd

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles is the palette for lk's own output. Colors are dropped when w is
// not a terminal, NO_COLOR is set or TERM=dumb.
type styles struct {
	title   lipgloss.Style
	name    lipgloss.Style
	comment lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true),
		name:    r.NewStyle().Foreground(lipgloss.Color("6")),
		comment: r.NewStyle().Faint(true),
		dim:     r.NewStyle().Faint(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// formatBool returns "enabled" or "disabled" for display.
func formatBool(st styles, b bool) string {
	if b {
		return st.ok.Render("enabled")
	}
	return st.warn.Render("disabled")
}
