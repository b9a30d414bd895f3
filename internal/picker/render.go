package picker

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	matchColor    = lipgloss.Color("4")
	selectedColor = lipgloss.Color("8")
	promptColor   = lipgloss.Color("6")
)

// DefaultPrompt is drawn in front of the query.
const DefaultPrompt = "$"

// Row is one line handed to the renderer.
type Row struct {
	Name      string
	Positions []int
	Blank     bool
	Selected  bool
}

func rowsOf[T any](contents []Item[T], selected int) []Row {
	rows := make([]Row, len(contents))
	for i, it := range contents {
		rows[i] = Row{Name: it.Name, Blank: it.Blank, Selected: i == selected && !it.Blank}
		if it.Score != nil {
			rows[i].Positions = it.Score.Positions
		}
	}
	return rows
}

// RendererConfig describes where and how a renderer draws.
type RendererConfig struct {
	// Capacity is the number of list rows above the prompt.
	Capacity int
	// AnchorRow is the 1-based screen row of the first list row.
	AnchorRow int
	// Width and Height are the terminal dimensions; zero means unknown.
	Width  int
	Height int
	// Prompt precedes the query on the prompt row.
	Prompt  string
	Profile termenv.Profile
}

// Renderer repaints the rows it owns, from AnchorRow through
// AnchorRow+Capacity, and nothing else. Each frame is assembled in memory
// and written in one call.
type Renderer struct {
	w      io.Writer
	cfg    RendererConfig
	anchor int
	first  bool

	buf bytes.Buffer
	seq *termenv.Output

	promptStyle   lipgloss.Style
	matchStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	selMatchStyle lipgloss.Style
}

// NewRenderer returns a renderer writing frames to w.
func NewRenderer(w io.Writer, cfg RendererConfig) *Renderer {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.AnchorRow < 1 {
		cfg.AnchorRow = 1
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	r := &Renderer{w: w, cfg: cfg, anchor: cfg.AnchorRow, first: true}
	r.seq = termenv.NewOutput(&r.buf, termenv.WithProfile(cfg.Profile))

	lg := lipgloss.NewRenderer(&r.buf, termenv.WithProfile(cfg.Profile))
	lg.SetColorProfile(cfg.Profile)
	r.promptStyle = lg.NewStyle().Foreground(promptColor)
	r.matchStyle = lg.NewStyle().Background(matchColor)
	r.selectedStyle = lg.NewStyle().Background(selectedColor)
	r.selMatchStyle = lg.NewStyle().Background(matchColor).Bold(true)
	return r
}

// AnchorRow returns the screen row of the first list row. It may move
// up on the first frame if the terminal had to scroll to make room.
func (r *Renderer) AnchorRow() int { return r.anchor }

// Render draws rows and the prompt line holding query.
func (r *Renderer) Render(rows []Row, query string) error {
	r.buf.Reset()
	if r.first {
		r.reserve()
		r.first = false
	}

	r.seq.HideCursor()
	for i, row := range rows {
		r.seq.MoveCursor(r.anchor+i, 1)
		r.seq.ClearLine()
		if !row.Blank {
			r.buf.WriteString(r.line(row))
		}
	}
	r.seq.MoveCursor(r.anchor+r.cfg.Capacity, 1)
	r.seq.ClearLine()
	r.buf.WriteString(r.promptLine(query))
	r.seq.ShowCursor()
	return r.flush()
}

// Clear blanks every owned row and leaves the cursor at the anchor row.
func (r *Renderer) Clear() error {
	r.buf.Reset()
	for i := 0; i <= r.cfg.Capacity; i++ {
		r.seq.MoveCursor(r.anchor+i, 1)
		r.seq.ClearLine()
	}
	r.seq.MoveCursor(r.anchor, 1)
	r.seq.ShowCursor()
	return r.flush()
}

// reserve pushes the prompt row onto the screen. Near the bottom of the
// terminal the line feeds scroll the screen, so the anchor moves up by the
// same amount.
func (r *Renderer) reserve() {
	r.buf.WriteString(strings.Repeat("\r\n", r.cfg.Capacity))
	if r.cfg.Height > 0 && r.anchor+r.cfg.Capacity > r.cfg.Height {
		r.anchor = max(r.cfg.Height-r.cfg.Capacity, 1)
	}
}

func (r *Renderer) line(row Row) string {
	name, positions := fitRow(row.Name, row.Positions, r.maxWidth())
	var b strings.Builder
	for _, s := range highlightSpans(name, positions) {
		switch {
		case s.matched && row.Selected:
			b.WriteString(r.selMatchStyle.Render(s.text))
		case s.matched:
			b.WriteString(r.matchStyle.Render(s.text))
		case row.Selected:
			b.WriteString(r.selectedStyle.Render(s.text))
		default:
			b.WriteString(s.text)
		}
	}
	return b.String()
}

func (r *Renderer) promptLine(query string) string {
	if limit := r.maxWidth() - len(r.cfg.Prompt) - 1; r.cfg.Width > 0 && len(query) > limit && limit > 0 {
		query = query[len(query)-limit:]
	}
	return r.promptStyle.Render(r.cfg.Prompt) + " " + query
}

// maxWidth leaves the last column free so a full row never wraps.
func (r *Renderer) maxWidth() int {
	if r.cfg.Width <= 1 {
		return 1 << 16
	}
	return r.cfg.Width - 1
}

func (r *Renderer) flush() error {
	if _, err := r.w.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	r.buf.Reset()
	return nil
}
