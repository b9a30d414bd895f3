// Package main is the entry point for the lk CLI.
package main

import (
	"os"

	"github.com/runger/lk/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
