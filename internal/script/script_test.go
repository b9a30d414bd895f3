package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lklog "github.com/runger/lk/internal/log"
)

const sample = `#!/usr/bin/env bash
#
# Database helpers.
# Needs DATABASE_URL.

set -euo pipefail

# Apply pending migrations.
# Safe to run twice.
migrate() {
  echo migrate
}

# This comment is orphaned by the next line.
readonly X=1
dump() {
  echo dump
}

# Internal helper.
_connect() {
  :
}

function seed() {
  :
}

  # Indented comment still counts.
reset ()   {
  :
}
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(sample), "scripts/db.sh")
	require.NoError(t, err)

	assert.Equal(t, []string{"Database helpers.", "Needs DATABASE_URL."}, s.Comment)

	names := make([]string, len(s.Functions))
	for i, f := range s.Functions {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"migrate", "dump", "seed", "reset"}, names)

	migrate, ok := s.Function("migrate")
	require.True(t, ok)
	assert.Equal(t, []string{"Apply pending migrations.", "Safe to run twice."}, migrate.Comment)

	dump, ok := s.Function("dump")
	require.True(t, ok)
	assert.Empty(t, dump.Comment)

	reset, ok := s.Function("reset")
	require.True(t, ok)
	assert.Equal(t, []string{"Indented comment still counts."}, reset.Comment)

	_, ok = s.Function("_connect")
	assert.False(t, ok)
}

func TestParseNoShebang(t *testing.T) {
	src := "# helper\nhello() {\n}\n"
	s, err := Parse(strings.NewReader(src), "x.sh")
	require.NoError(t, err)

	assert.Empty(t, s.Comment)
	require.Len(t, s.Functions, 1)
	assert.Equal(t, []string{"helper"}, s.Functions[0].Comment)
}

func TestParseHeaderEndsAtCode(t *testing.T) {
	src := "#!/bin/bash\n# header\necho hi\n# not header\nf() {\n}\n"
	s, err := Parse(strings.NewReader(src), "x.sh")
	require.NoError(t, err)

	assert.Equal(t, []string{"header"}, s.Comment)
	require.Len(t, s.Functions, 1)
	assert.Equal(t, []string{"not header"}, s.Functions[0].Comment)
}

func TestFunctionName(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"build() {", "build", true},
		{"build(){", "build", true},
		{"function build() {", "build", true},
		{"  build () {  ", "build", true},
		{"db:migrate() {", "db:migrate", true},
		{"_private() {", "", false},
		{"build() { echo inline; }", "", false},
		{"echo 'x() {'", "", false},
		{"build()", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := functionName(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptPaths(t *testing.T) {
	s := &Script{Path: filepath.Join("scripts", "db.sh")}
	assert.Equal(t, "scripts", s.Dir())
	assert.Equal(t, "db.sh", s.FileName())
}

func TestParseAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.sh", "b.sh", "c.sh"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("fn_"+strings.TrimSuffix(name, ".sh")+"() {\n}\n"), 0755))
		paths = append(paths, p)
	}
	paths = append(paths[:1], append([]string{filepath.Join(dir, "missing.sh")}, paths[1:]...)...)

	scripts, err := ParseAll(context.Background(), paths, lklog.Discard())
	require.NoError(t, err)
	require.Len(t, scripts, 3)
	assert.Equal(t, "fn_a", scripts[0].Functions[0].Name)
	assert.Equal(t, "fn_b", scripts[1].Functions[0].Name)
	assert.Equal(t, "fn_c", scripts[2].Functions[0].Name)
}

func TestParseAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseAll(ctx, []string{"a", "b"}, lklog.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}
