// Package discover finds executable text scripts below a directory.
package discover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of a file is inspected to tell text from binary.
const sniffLen = 512

// ErrNoIncludes is returned when no include pattern is configured.
var ErrNoIncludes = errors.New("no include patterns configured")

// Executable is a script found by Find.
type Executable struct {
	// ShortName is the path relative to the search root, slash separated.
	ShortName string
	// Path is the path used to open the file.
	Path string
}

// Executables is a sorted list of scripts.
type Executables []Executable

// Get returns the executable whose short name is name. A leading "./" is
// ignored.
func (e Executables) Get(name string) (Executable, bool) {
	name = path.Clean(filepath.ToSlash(name))
	for _, x := range e {
		if x.ShortName == name {
			return x, true
		}
	}
	return Executable{}, false
}

// Find returns every executable text file under root matching one of
// includes and not matching, or living below, one of excludes.
func Find(root string, includes, excludes []string) (Executables, error) {
	if len(includes) == 0 {
		return nil, ErrNoIncludes
	}
	fsys := os.DirFS(root)

	var excluded []string
	for _, pattern := range excludes {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excluded = append(excluded, matches...)
	}

	seen := make(map[string]bool)
	var found Executables
	for _, pattern := range includes {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || isExcluded(m, excluded) {
				continue
			}
			seen[m] = true

			full := filepath.Join(root, filepath.FromSlash(m))
			ok, err := isExecutableScript(full)
			if err != nil || !ok {
				continue
			}
			found = append(found, Executable{ShortName: m, Path: full})
		}
	}

	slices.SortFunc(found, func(a, b Executable) int {
		return strings.Compare(a.ShortName, b.ShortName)
	})
	return found, nil
}

func isExcluded(name string, excluded []string) bool {
	for _, ex := range excluded {
		if name == ex || strings.HasPrefix(name, ex+"/") {
			return true
		}
	}
	return false
}

// isExecutableScript reports whether p is a regular, executable, readable
// text file. Symlinks are not followed.
func isExecutableScript(p string) (bool, error) {
	info, err := os.Lstat(p)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return false, nil
	}
	return isText(p)
}

func isText(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	if n == 0 {
		return true, nil
	}
	for mt := mimetype.Detect(head[:n]); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true, nil
		}
	}
	return false, nil
}
