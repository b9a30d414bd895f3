package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/lk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set lk configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/lk/config.yaml (XDG compliant).
A project may override mode, includes, excludes and visible_rows in ./lk.toml.

Keys are in the format: section.key
Sections: discovery, picker, runner, history, runlog, log

Examples:
  lk config                              # List all keys
  lk config picker.visible_rows          # Get a value
  lk config picker.visible_rows 12       # Set a value
  lk config discovery.excludes "**/.git,**/vendor"`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	switch len(args) {
	case 0:
		return listConfig(out, cfg, paths)
	case 1:
		return getConfig(out, cfg, args[0])
	case 2:
		return setConfig(out, cfg, paths, args[0], args[1])
	}

	return nil
}

func listConfig(w io.Writer, cfg *config.Config, paths *config.Paths) error {
	st := newStyles(w)
	fmt.Fprintln(w, st.title.Render("Configuration Keys"))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w)

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := value
		switch {
		case value == "":
			displayValue = st.dim.Render("(not set)")
		case strings.HasSuffix(key, ".enabled"):
			displayValue = formatBool(st, value == "true")
		}

		fmt.Fprintf(w, "  %s = %s\n", st.name.Render(key), displayValue)
	}

	if len(failedKeys) > 0 {
		fmt.Fprintf(w, "\n%s Failed to retrieve keys: %s\n", st.warn.Render("Warning:"), strings.Join(failedKeys, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Config file: %s\n", paths.ConfigFile())

	return nil
}

func getConfig(w io.Writer, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Fprintln(w, newStyles(w).dim.Render("(not set)"))
	} else {
		fmt.Fprintln(w, value)
	}

	return nil
}

func setConfig(w io.Writer, cfg *config.Config, paths *config.Paths, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure directories exist before saving
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	st := newStyles(w)
	fmt.Fprintf(w, "%s = %s\n", st.name.Render(key), value)
	fmt.Fprintf(w, "Saved to: %s\n", paths.ConfigFile())

	return nil
}
