package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/lk/internal/config"
)

var (
	fuzzyFlag   bool
	listFlag    bool
	defaultMode string
)

var rootCmd = &cobra.Command{
	Use:   "lk [flags] [script] [function] [params...]",
	Short: "run functions from your shell scripts",
	Long: `lk - run functions from your shell scripts

  lk                      use the default mode (see -d)
  lk -f                   pick any function with a fuzzy finder and run it
  lk -l                   list executable scripts
  lk <script>             list the functions in a script
  lk <script> <function>  run a function; remaining params are passed to it`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

// Execute runs the root command and prints any error that is not a plain
// exit status.
func Execute() error {
	err := rootCmd.Execute()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		st := newStyles(os.Stderr)
		fmt.Fprintf(os.Stderr, "%s %v\n", st.err.Render("lk:"), err)
	}
	return err
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolVarP(&fuzzyFlag, "fuzzy", "f", false, "pick a function with the fuzzy finder")
	rootCmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list scripts and functions")
	rootCmd.Flags().StringVarP(&defaultMode, "default", "d", "", "set the default mode (fuzzy or list)")
	rootCmd.MarkFlagsMutuallyExclusive("fuzzy", "list")

	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if defaultMode != "" {
		return setDefaultMode(cmd, defaultMode)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	switch resolveMode(a.cfg.Mode, fuzzyFlag, listFlag, args) {
	case config.ModeFuzzy:
		return a.fuzzy(cmd.Context())
	default:
		return a.list(cmd.Context(), args)
	}
}

// resolveMode picks the mode for one invocation. Flags win, then a script
// argument implies list mode, then the configured default applies.
func resolveMode(configured string, fuzzy, list bool, args []string) string {
	switch {
	case fuzzy:
		return config.ModeFuzzy
	case list, len(args) > 0:
		return config.ModeList
	case configured == config.ModeFuzzy:
		return config.ModeFuzzy
	default:
		return config.ModeList
	}
}

func setDefaultMode(cmd *cobra.Command, mode string) error {
	if !config.IsValidMode(mode) {
		return fmt.Errorf("invalid mode %q (must be %s or %s)", mode, config.ModeFuzzy, config.ModeList)
	}

	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Mode = mode

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "default mode: %s\n", st.name.Render(mode))
	return nil
}
