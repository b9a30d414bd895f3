package picker

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset sequences: ESC ( B, ESC ) B, etc.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// CleanName makes a name safe to draw on a single terminal row: escape
// sequences are removed and remaining control characters become spaces.
func CleanName(s string) string {
	s = StripANSI(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

// isPrintableASCII reports whether every byte of s is a printable ASCII
// character, which makes byte offsets equal to terminal columns.
func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			return false
		}
	}
	return true
}

// fitRow truncates name to maxWidth columns and drops match positions that
// fall outside the kept text. Names that are not printable ASCII lose
// their positions entirely.
func fitRow(name string, positions []int, maxWidth int) (string, []int) {
	if maxWidth <= 0 {
		return "", nil
	}
	if !isPrintableASCII(name) {
		return runewidth.Truncate(CleanName(name), maxWidth, ""), nil
	}
	if len(name) > maxWidth {
		name = name[:maxWidth]
	}
	kept := positions[:0:0]
	for _, p := range positions {
		if p >= 0 && p < len(name) {
			kept = append(kept, p)
		}
	}
	return name, kept
}

type span struct {
	text    string
	matched bool
}

// highlightSpans splits name into alternating unmatched and matched runs.
func highlightSpans(name string, positions []int) []span {
	if name == "" {
		return nil
	}
	hit := make([]bool, len(name))
	for _, p := range positions {
		if p >= 0 && p < len(name) {
			hit[p] = true
		}
	}
	var spans []span
	start := 0
	for i := 1; i <= len(name); i++ {
		if i == len(name) || hit[i] != hit[start] {
			spans = append(spans, span{text: name[start:i], matched: hit[start]})
			start = i
		}
	}
	return spans
}
