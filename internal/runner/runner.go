// Package runner executes a function from a shell script.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
)

// DefaultShell interprets the wrapper when no shell is configured.
const DefaultShell = "bash"

const wrapperHeader = `#!/usr/bin/env bash
#
# Temporary file written by lk to run a single function from a script.
# It is removed when the function returns.
`

// Request names the function to run.
type Request struct {
	// ScriptPath is the script defining the function.
	ScriptPath string
	Function   string
	Args       []string
}

// Runner executes functions through a temporary wrapper script.
type Runner struct {
	// Shell is the interpreter command line, split like a shell would.
	Shell string
	// TempDir holds wrapper files; empty means os.TempDir().
	TempDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// New returns a runner attached to the process's stdio.
func New(shell string, logger *slog.Logger) *Runner {
	return &Runner{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run executes req and returns the function's exit code. A non-zero exit
// is not an error; err is set only when the function could not be run.
func (r *Runner) Run(ctx context.Context, req Request) (int, error) {
	argv, err := r.shellArgv()
	if err != nil {
		return -1, err
	}

	wrapper, err := r.writeWrapper(req)
	if err != nil {
		return -1, err
	}
	defer r.removeWrapper(wrapper)

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], wrapper)...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("run %s: %w", req.Function, err)
	}
}

func (r *Runner) shellArgv() ([]string, error) {
	shell := r.Shell
	if strings.TrimSpace(shell) == "" {
		shell = DefaultShell
	}
	argv, err := shlex.Split(shell)
	if err != nil {
		return nil, fmt.Errorf("invalid shell %q: %w", shell, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("invalid shell %q: empty command", shell)
	}
	return argv, nil
}

// Wrapper returns the wrapper script body for req.
func Wrapper(req Request) (string, error) {
	abs, err := filepath.Abs(req.ScriptPath)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}

	var b strings.Builder
	b.WriteString(wrapperHeader)
	b.WriteString("\n")
	fmt.Fprintf(&b, "cd %s\n", shellquote.Join(filepath.Dir(abs)))
	fmt.Fprintf(&b, "source %s\n", shellquote.Join(abs))
	b.WriteString(shellquote.Join(append([]string{req.Function}, req.Args...)...))
	b.WriteString("\n")
	return b.String(), nil
}

func (r *Runner) writeWrapper(req Request) (string, error) {
	body, err := Wrapper(req)
	if err != nil {
		return "", err
	}

	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "lk_"+uuid.NewString()+".sh")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0700)
	if err != nil {
		return "", fmt.Errorf("create wrapper: %w", err)
	}
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write wrapper: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write wrapper: %w", err)
	}
	return path, nil
}

func (r *Runner) removeWrapper(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) && r.Logger != nil {
		r.Logger.Warn("failed to remove wrapper", "path", path, "error", err)
	}
}

// CommandLine renders the lk invocation that reruns req, quoted for a
// POSIX shell.
func CommandLine(shortName, function string, args []string) string {
	return "lk " + shellquote.Join(append([]string{shortName, function}, args...)...)
}
