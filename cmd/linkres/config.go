// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/linkres/internal/config"
)

// newConfigCommand creates the `linkres config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect linkres configuration",
		Long: `Inspect linkres configuration.

Configuration is read from the first file found:
  - the file passed with --config
  - linkres.cue in the current directory
  - linkres/linkres.cue in the user configuration directory
    (Linux: ~/.config, macOS: ~/Library/Application Support, Windows: %AppData%)

Scalar settings can be overridden with LINKRES_* environment variables,
e.g. LINKRES_PLATFORM=android.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", config.FormatCUE, "output format (cue, toml or json)")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, format string) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}

	out, err := config.Encode(cfg, format)
	if err != nil {
		return app.fail(cmd, err)
	}
	_, err = app.stdout.Write(out)
	return err
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}

	if src := cfg.Source(); src != "" {
		fmt.Fprintln(app.stdout, src)
		return nil
	}

	fmt.Fprintln(app.stdout, SubtitleStyle.Render("No configuration file found; using defaults."))
	if dir, err := config.ConfigDir(); err == nil {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("User configuration file: ")+filepath.Join(dir, config.ConfigFileName))
	}
	return nil
}
