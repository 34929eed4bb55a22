package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "upgradenotes",
	Short: "Collect and categorize upgrade notes for outdated dependencies",
	Long: `A CLI tool that evaluates a project's outdated dependencies and, for
each one, collects human-readable upgrade evidence (GitHub release notes,
the repository changelog, or raw commit history, tried in that order),
categorizes it into actionable findings (breaking changes, security,
deprecations, performance, migration), and drives the update itself after
a single confirmation:

- Collecting notes per package with per-package failure isolation
- Categorizing the collected text into named buckets
- Optionally summarizing the findings through an AI provider
- Selecting, writing, and installing the chosen updates
- Writing a markdown report of everything it found`,
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}
