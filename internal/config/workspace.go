package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// WorkspaceFile is the per-directory override file.
const WorkspaceFile = "lk.toml"

// Workspace holds settings from a project's lk.toml. Absent keys leave the
// user configuration untouched.
type Workspace struct {
	Mode        *string  `toml:"mode"`
	Includes    []string `toml:"includes"`
	Excludes    []string `toml:"excludes"`
	VisibleRows *int     `toml:"visible_rows"`
}

// LoadWorkspace reads dir/lk.toml. It returns nil and no error when the
// file does not exist.
func LoadWorkspace(dir string) (*Workspace, error) {
	path := filepath.Join(dir, WorkspaceFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", WorkspaceFile, err)
	}

	var ws Workspace
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ws); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse %s: %s", WorkspaceFile, strict.String())
		}
		return nil, fmt.Errorf("failed to parse %s: %w", WorkspaceFile, err)
	}

	if ws.Mode != nil && !IsValidMode(*ws.Mode) {
		return nil, fmt.Errorf("%s: mode must be fuzzy or list (got: %s)", WorkspaceFile, *ws.Mode)
	}
	if ws.VisibleRows != nil && *ws.VisibleRows < 1 {
		return nil, fmt.Errorf("%s: visible_rows must be >= 1", WorkspaceFile)
	}
	return &ws, nil
}

// ApplyWorkspace overlays ws onto c. A nil workspace is a no-op.
func (c *Config) ApplyWorkspace(ws *Workspace) {
	if ws == nil {
		return
	}
	if ws.Mode != nil {
		c.Mode = *ws.Mode
	}
	if ws.Includes != nil {
		c.Discovery.Includes = ws.Includes
	}
	if ws.Excludes != nil {
		c.Discovery.Excludes = ws.Excludes
	}
	if ws.VisibleRows != nil {
		c.Picker.VisibleRows = *ws.VisibleRows
	}
}
