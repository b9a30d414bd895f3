// Package script extracts documented functions from shell scripts.
package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// parseConcurrency bounds how many scripts ParseAll reads at once.
const parseConcurrency = 8

// functionHeaderRE matches "name() {" and "function name() {" lines.
var functionHeaderRE = regexp.MustCompile(`^\s*(?:function\s+)?([A-Za-z0-9_][A-Za-z0-9_:.-]*)\s*\(\)\s*\{\s*$`)

// Function is a shell function and the comment block directly above it.
type Function struct {
	Name    string
	Comment []string
}

// Script is a parsed script file.
type Script struct {
	Path      string
	Comment   []string
	Functions []Function
}

// Dir returns the directory holding the script.
func (s *Script) Dir() string { return filepath.Dir(s.Path) }

// FileName returns the script's base name.
func (s *Script) FileName() string { return filepath.Base(s.Path) }

// Function looks up a public function by name.
func (s *Script) Function(name string) (Function, bool) {
	for _, f := range s.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a script from r. path is recorded on the result.
//
// A "#!" line starts the header; the comment lines after it describe the
// script. Other comment lines accumulate and attach to the next function
// header. Any other line discards them. Functions whose names start with
// an underscore are private and skipped.
func Parse(r io.Reader, path string) (*Script, error) {
	s := &Script{Path: path}

	var pending []string
	inHeader := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")

		if trimmed := strings.TrimLeft(line, " \t"); strings.HasPrefix(trimmed, "#") {
			switch {
			case strings.HasPrefix(trimmed, "#!"):
				inHeader = true
			case inHeader:
				c := cleanComment(trimmed)
				if c == "" && len(s.Comment) == 0 {
					continue
				}
				s.Comment = append(s.Comment, c)
			default:
				pending = append(pending, cleanComment(trimmed))
			}
			continue
		}

		inHeader = false
		if name, ok := functionName(line); ok {
			s.Functions = append(s.Functions, Function{Name: name, Comment: trimBlank(pending)})
		}
		pending = nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s.Comment = trimBlank(s.Comment)
	return s, nil
}

// ParseAll parses every path concurrently, preserving input order.
// Scripts that cannot be read are logged and left out.
func ParseAll(ctx context.Context, paths []string, logger *slog.Logger) ([]*Script, error) {
	results := make([]*Script, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := ParseFile(p)
			if err != nil {
				logger.Warn("skipping unreadable script", "path", p, "error", err)
				return nil
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scripts := make([]*Script, 0, len(results))
	for _, s := range results {
		if s != nil {
			scripts = append(scripts, s)
		}
	}
	return scripts, nil
}

func functionName(line string) (string, bool) {
	m := functionHeaderRE.FindStringSubmatch(line)
	if m == nil || strings.HasPrefix(m[1], "_") {
		return "", false
	}
	return m[1], true
}

// cleanComment strips the comment markers and the whitespace after them.
func cleanComment(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// trimBlank drops trailing empty lines.
func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
