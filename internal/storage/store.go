// Package storage provides SQLite-based persistent storage for lk.
// It records every function run so recent runs can be listed and repeated.
package storage

import "context"

// Store defines the interface for all storage operations.
type Store interface {
	RecordRun(ctx context.Context, r *Run) error
	RecentRuns(ctx context.Context, q RunQuery) ([]Run, error)
	Close() error
}

// Run is one executed function.
type Run struct {
	RunID           string
	Script          string // Script short name, relative to Cwd
	Function        string
	Args            []string
	Cwd             string
	StartedAtUnixMs int64
	DurationMs      int64
	ExitCode        int
}

// RunQuery filters RecentRuns.
type RunQuery struct {
	// Cwd restricts results to runs started in this directory when set.
	Cwd   string
	Limit int
}

var _ Store = (*SQLiteStore)(nil)
