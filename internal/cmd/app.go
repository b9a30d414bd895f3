package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/lk/internal/config"
	"github.com/runger/lk/internal/discover"
	"github.com/runger/lk/internal/history"
	lklog "github.com/runger/lk/internal/log"
	"github.com/runger/lk/internal/runner"
	"github.com/runger/lk/internal/script"
	"github.com/runger/lk/internal/storage"
)

// app is the state shared by one lk invocation.
type app struct {
	cfg     *config.Config
	paths   *config.Paths
	cwd     string
	logger  *slog.Logger
	logFile io.Closer

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// newApp loads user config, the workspace override and env overrides, in
// that order, and opens the log file.
func newApp(cmd *cobra.Command) (*app, error) {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	ws, err := config.LoadWorkspace(cwd)
	if err != nil {
		return nil, err
	}
	cfg.ApplyWorkspace(ws)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{
		cfg:    cfg,
		paths:  paths,
		cwd:    cwd,
		logger: lklog.Discard(),
		stdin:  cmd.InOrStdin(),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
		now:    time.Now,
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = paths.LogFile()
	}
	if f, err := lklog.OpenFile(logPath); err == nil {
		a.logFile = f
		a.logger = lklog.New(&lklog.Config{Output: f, Level: lklog.ParseLevel(cfg.Log.Level)})
	}

	lklog.LogStartup(a.logger, lklog.StartupInfo{
		Version:    Version,
		ConfigPath: paths.ConfigFile(),
		Workdir:    cwd,
		Mode:       cfg.Mode,
		PID:        os.Getpid(),
	})
	return a, nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// discover finds the executable scripts under the working directory.
func (a *app) discover() (discover.Executables, error) {
	var exes discover.Executables
	err := withSpinner(a.stderr, "searching for scripts", func() error {
		var err error
		exes, err = discover.Find(a.cwd, a.cfg.Discovery.Includes, a.cfg.Discovery.Excludes)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find scripts: %w", err)
	}
	return exes, nil
}

// entry is a parsed script together with how it was found.
type entry struct {
	exe    discover.Executable
	script *script.Script
}

// loadAll discovers and parses every script.
func (a *app) loadAll(ctx context.Context) ([]entry, error) {
	start := a.now()
	exes, err := a.discover()
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(exes))
	byPath := make(map[string]discover.Executable, len(exes))
	for i, e := range exes {
		paths[i] = e.Path
		byPath[e.Path] = e
	}
	scripts, err := script.ParseAll(ctx, paths, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scripts: %w", err)
	}

	entries := make([]entry, 0, len(scripts))
	functions := 0
	for _, s := range scripts {
		entries = append(entries, entry{exe: byPath[s.Path], script: s})
		functions += len(s.Functions)
	}
	lklog.LogDiscovery(a.logger, len(exes), functions, a.now().Sub(start).Milliseconds())
	return entries, nil
}

// execute runs fn from exe and records it. A non-zero exit status is
// returned as *ExitError.
func (a *app) execute(ctx context.Context, exe discover.Executable, fn string, args []string) error {
	line := runner.CommandLine(exe.ShortName, fn, args)
	st := newStyles(a.stderr)
	fmt.Fprintln(a.stderr, st.dim.Render(line))

	r := runner.New(a.cfg.Runner.Shell, a.logger)
	r.Stdin = a.stdin
	r.Stdout = a.stdout
	r.Stderr = a.stderr

	start := a.now()
	code, err := r.Run(ctx, runner.Request{ScriptPath: exe.Path, Function: fn, Args: args})
	if err != nil {
		return err
	}
	duration := a.now().Sub(start)
	lklog.LogRun(a.logger, exe.ShortName, fn, code, duration.Milliseconds())

	if a.cfg.RunLog.Enabled {
		a.recordRun(ctx, &storage.Run{
			Script:          exe.ShortName,
			Function:        fn,
			Args:            args,
			Cwd:             a.cwd,
			StartedAtUnixMs: start.UnixMilli(),
			DurationMs:      duration.Milliseconds(),
			ExitCode:        code,
		})
	}
	if a.cfg.History.Enabled {
		a.appendHistory(line, start)
	}

	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func (a *app) recordRun(ctx context.Context, run *storage.Run) {
	store, err := storage.NewSQLiteStore(a.paths.DatabaseFile())
	if err != nil {
		a.logger.Warn("run log unavailable", "error", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(ctx, run); err != nil {
		a.logger.Warn("failed to record run", "error", err)
	}
}

func (a *app) appendHistory(line string, now time.Time) {
	shell := history.DetectShell()
	err := history.Append(shell, line, now)
	switch {
	case err == nil:
	case errors.Is(err, history.ErrNoHistoryFile), errors.Is(err, history.ErrUnknownShell):
		a.logger.Debug("shell history not updated", "shell", shell, "error", err)
	default:
		a.logger.Warn("failed to append shell history", "shell", shell, "error", err)
	}
}

// displayName is how a function appears in the picker.
func displayName(e discover.Executable, fn string) string {
	return path.Dir(e.ShortName) + "/" + path.Base(e.ShortName) + " - " + fn
}
