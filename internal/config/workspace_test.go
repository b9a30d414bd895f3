package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeWorkspace(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, WorkspaceFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadWorkspace_Missing(t *testing.T) {
	ws, err := LoadWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWorkspace() error = %v", err)
	}
	if ws != nil {
		t.Errorf("expected nil workspace, got %+v", ws)
	}
}

func TestLoadWorkspace_Apply(t *testing.T) {
	dir := writeWorkspace(t, `
mode = "list"
includes = ["scripts/**/*.sh"]
visible_rows = 4
`)

	ws, err := LoadWorkspace(dir)
	if err != nil {
		t.Fatalf("LoadWorkspace() error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.ApplyWorkspace(ws)

	if cfg.Mode != ModeList {
		t.Errorf("mode = %s", cfg.Mode)
	}
	if len(cfg.Discovery.Includes) != 1 || cfg.Discovery.Includes[0] != "scripts/**/*.sh" {
		t.Errorf("includes = %v", cfg.Discovery.Includes)
	}
	if len(cfg.Discovery.Excludes) != len(DefaultExcludes) {
		t.Errorf("excludes should be untouched, got %v", cfg.Discovery.Excludes)
	}
	if cfg.Picker.VisibleRows != 4 {
		t.Errorf("visible_rows = %d", cfg.Picker.VisibleRows)
	}
}

func TestLoadWorkspace_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"unknown key", `scripts_dir = "x"`, "missing"},
		{"bad mode", `mode = "grid"`, "mode"},
		{"bad rows", `visible_rows = 0`, "visible_rows"},
		{"syntax", `mode = `, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWorkspace(writeWorkspace(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error = %v, want mention of %s", err, tt.errSub)
			}
		})
	}
}

func TestApplyWorkspace_Nil(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyWorkspace(nil)
	if cfg.Mode != ModeFuzzy {
		t.Errorf("mode = %s", cfg.Mode)
	}
}
