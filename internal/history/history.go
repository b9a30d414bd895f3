// Package history appends lk invocations to the user's shell history so a
// function picked interactively can be rerun from the shell.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Shells.
const (
	ShellBash = "bash"
	ShellZsh  = "zsh"
	ShellFish = "fish"
)

var (
	// ErrUnknownShell is returned when the shell's history format is not known.
	ErrUnknownShell = errors.New("unknown shell")
	// ErrNoHistoryFile is returned when the shell's history file does not exist.
	ErrNoHistoryFile = errors.New("history file not found")
)

// DetectShell returns the shell name based on the SHELL env var.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ""
	}
	switch base := filepath.Base(shell); base {
	case ShellBash, ShellZsh, ShellFish:
		return base
	default:
		return ""
	}
}

// Path returns the history file used by shell.
func Path(shell string) (string, error) {
	switch shell {
	case ShellBash:
		return histFileOr(".bash_history")
	case ShellZsh:
		return histFileOr(".zsh_history")
	case ShellFish:
		return fishHistoryPath()
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShell, shell)
	}
}

// Append adds command to shell's history file, recorded at now. The file
// must already exist.
func Append(shell, command string, now time.Time) error {
	path, err := Path(shell)
	if err != nil {
		return err
	}
	return AppendTo(path, shell, command, now)
}

// AppendTo adds command to the history file at path in shell's format.
func AppendTo(path, shell, command string, now time.Time) error {
	entry, err := FormatEntry(shell, command, now)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoHistoryFile, path)
		}
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// FormatEntry renders command as one history record, newline terminated.
//
//	bash: the command line as is
//	zsh:  ": <unix>:0;<command>" with embedded newlines continued by backslash
//	fish: "- cmd: <escaped>" followed by "  when: <unix>"
func FormatEntry(shell, command string, now time.Time) (string, error) {
	ts := now.Unix()
	switch shell {
	case ShellBash:
		return command + "\n", nil
	case ShellZsh:
		return fmt.Sprintf(": %d:0;%s\n", ts, strings.ReplaceAll(command, "\n", "\\\n")), nil
	case ShellFish:
		return fmt.Sprintf("- cmd: %s\n  when: %d\n", encodeFishEscapes(command), ts), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShell, shell)
	}
}

// encodeFishEscapes escapes backslashes and newlines the way fish stores
// them in its history file.
func encodeFishEscapes(s string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(s)
}

func histFileOr(name string) (string, error) {
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return histFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, name), nil
}

// fishHistoryPath returns the path to fish history file.
func fishHistoryPath() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "fish", "fish_history"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "fish", "fish_history"), nil
}
