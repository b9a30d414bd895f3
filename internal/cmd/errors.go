package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrScriptNotFound is returned when a named script was not discovered.
	ErrScriptNotFound = errors.New("no such script")
	// ErrFunctionNotFound is returned when a script has no such function.
	ErrFunctionNotFound = errors.New("no such function")
)

// ExitError carries a function's non-zero exit status up to main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
