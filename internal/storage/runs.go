package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DefaultRunLimit caps RecentRuns when no limit is given.
const DefaultRunLimit = 20

// RecordRun inserts a run. A missing RunID is generated.
func (s *SQLiteStore) RecordRun(ctx context.Context, r *Run) error {
	if r.Script == "" {
		return errors.New("script is required")
	}
	if r.Function == "" {
		return errors.New("function is required")
	}
	if r.Cwd == "" {
		return errors.New("cwd is required")
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	args := r.Args
	if args == nil {
		args = []string{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode args: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, script, function, args_json, cwd,
			started_at_unix_ms, duration_ms, exit_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID,
		r.Script,
		r.Function,
		string(argsJSON),
		r.Cwd,
		r.StartedAtUnixMs,
		r.DurationMs,
		r.ExitCode,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns runs newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, q RunQuery) ([]Run, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	query := `
		SELECT run_id, script, function, args_json, cwd,
		       started_at_unix_ms, duration_ms, exit_code
		FROM runs`
	var args []any
	if q.Cwd != "" {
		query += ` WHERE cwd = ?`
		args = append(args, q.Cwd)
	}
	query += ` ORDER BY started_at_unix_ms DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var argsJSON string
		if err := rows.Scan(
			&r.RunID, &r.Script, &r.Function, &argsJSON, &r.Cwd,
			&r.StartedAtUnixMs, &r.DurationMs, &r.ExitCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &r.Args); err != nil {
			return nil, fmt.Errorf("failed to decode args for run %s: %w", r.RunID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
