// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/invowk/linkres/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the linkres command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linkres",
		Short: "Symlink-aware module resolution for JavaScript bundlers",
		Long: TitleStyle.Render("linkres") + SubtitleStyle.Render(" - Symlink-aware module resolution for JavaScript bundlers") + `

linkres rewrites bare package specifiers such as "lodash" or
"@babel/core/lib/index" into paths relative to the importing file,
following symlinked workspace packages to their real location before
handing them to the bundler's file resolver.

` + SubtitleStyle.Render("Examples:") + `
  linkres parse @babel/core/lib/index         Classify a specifier
  linkres rewrite --from src/index.js lodash  Show the origin-relative rewrite
  linkres resolve --from src/index.js react   Resolve to a file on disk
  linkres config show --format toml           Show the effective configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.opts.configFile, "config", "", "config file (default is ./linkres.cue, then $HOME/.config/linkres/linkres.cue)")
	rootCmd.PersistentFlags().StringVar(&app.opts.platform, "platform", "", "target platform (overrides config)")
	rootCmd.PersistentFlags().StringVar(&app.opts.projectRoot, "project-root", "", "directory relative --from paths are resolved against (overrides config)")

	rootCmd.AddCommand(newParseCommand(app))
	rootCmd.AddCommand(newRewriteCommand(app))
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	os.Exit(Main())
}

// Main runs the CLI and returns the process exit code instead of exiting.
func Main() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := issue.AsActionable(err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
