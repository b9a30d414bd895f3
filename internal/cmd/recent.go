package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/lk/internal/config"
	"github.com/runger/lk/internal/runner"
	"github.com/runger/lk/internal/storage"
)

var (
	recentLimit int
	recentHere  bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently run functions",
	Long: `Show functions run through lk, newest first.

Each line is the command that reruns the function.

Examples:
  lk recent            # Last 20 runs
  lk recent -n 5       # Last 5 runs
  lk recent --here     # Runs started in this directory`,
	Args: cobra.NoArgs,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", storage.DefaultRunLimit, "maximum number of runs to show")
	recentCmd.Flags().BoolVar(&recentHere, "here", false, "only show runs started in the current directory")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	if recentLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	q := storage.RunQuery{Limit: recentLimit}
	if recentHere {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		q.Cwd = cwd
	}

	store, err := storage.NewSQLiteStore(config.DefaultPaths().DatabaseFile())
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), q)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), runs, recentHere)
	return nil
}

func printRuns(w io.Writer, runs []storage.Run, here bool) {
	st := newStyles(w)
	if len(runs) == 0 {
		fmt.Fprintln(w, st.dim.Render("no runs recorded"))
		return
	}

	for _, r := range runs {
		started := time.UnixMilli(r.StartedAtUnixMs).Format("2006-01-02 15:04:05")
		status := st.ok.Render(fmt.Sprintf("%3d", r.ExitCode))
		if r.ExitCode != 0 {
			status = st.err.Render(fmt.Sprintf("%3d", r.ExitCode))
		}
		line := runner.CommandLine(r.Script, r.Function, r.Args)
		fmt.Fprintf(w, "%s  %s  %s", st.dim.Render(started), status, line)
		if !here {
			fmt.Fprintf(w, "  %s", st.dim.Render(r.Cwd))
		}
		fmt.Fprintln(w)
	}
}
