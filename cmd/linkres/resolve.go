// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/linkres/pkg/resolver"
)

func newResolveCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "resolve --from <file> <specifier>...",
		Short: "Resolve specifiers to files on disk",
		Long: `Resolve specifiers to files on disk.

Each specifier goes through redirects and the symlink-aware rewrite, then
the file resolver probes platform-specific extensions and index files.
Specifiers are resolved concurrently; output keeps argument order.`,
		Example: `  linkres resolve --from packages/app/src/index.js react shared-lib/utils
  linkres resolve --platform android --from src/App.tsx ./Button`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, app, from, args)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "file the specifiers are imported from (required)")

	return cmd
}

func runResolve(cmd *cobra.Command, app *App, from string, specifiers []string) error {
	sess, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}
	ctx, err := sess.contextFrom(from)
	if err != nil {
		return app.fail(cmd, err)
	}

	results := sess.engine.ResolveMany(ctx, specifiers, sess.platform)

	var failed []resolver.Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
			continue
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SpecifierStyle.Render(res.Specifier), SubtitleStyle.Render("->"), formatResolution(res.Resolution))
	}
	for _, res := range failed {
		app.printError(explainError("resolve module", res.Specifier, res.Err))
	}
	if len(failed) > 0 {
		return silentExit(cmd)
	}
	return nil
}

// formatResolution renders a successful resolution for terminal output.
func formatResolution(res resolver.Resolution) string {
	switch res.Kind() {
	case resolver.ResolutionSourceFile:
		return SuccessStyle.Render(res.FilePath().String())
	case resolver.ResolutionAssetFiles:
		paths := res.FilePaths()
		parts := make([]string, len(paths))
		for i, p := range paths {
			parts[i] = p.String()
		}
		return SuccessStyle.Render(strings.Join(parts, ", "))
	default:
		return WarningStyle.Render("<empty>")
	}
}
