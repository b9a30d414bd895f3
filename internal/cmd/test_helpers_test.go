package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dbScript = `#!/usr/bin/env bash
# Database helpers

# Apply migrations
migrate() {
  echo "migrating"
}

# Greet someone
# by name
greet() {
  echo "hello $*"
}

fail() {
  return 3
}

_private() {
  :
}
`

// setupEnv isolates config, data and history from the real user and
// returns a fresh working directory, which becomes the current one.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	t.Setenv("SHELL", "")
	t.Setenv("HISTFILE", "")
	t.Setenv("TERM", "dumb")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("LK_MODE", "")
	t.Setenv("LK_VISIBLE_ROWS", "")
	t.Setenv("LK_DEBUG", "")
	t.Setenv("LK_LOG_LEVEL", "")

	work := t.TempDir()
	t.Chdir(work)
	return work
}

func writeFile(t *testing.T, dir, rel, body string, mode os.FileMode) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(p, []byte(body), mode); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// seedScripts lays out two executable scripts and a plain text file.
func seedScripts(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "scripts/db.sh", dbScript, 0755)
	writeFile(t, dir, "build.sh", "#!/bin/sh\n# Build it\nbuild() {\n  echo built\n}\n", 0755)
	writeFile(t, dir, "notes.txt", "not a script\n", 0644)
}

// resetFlags returns every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeRoot runs lk with args and captures its output.
func executeRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
