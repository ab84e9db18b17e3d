// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/types"
)

func newRewriteCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "rewrite --from <file> <specifier>...",
		Short: "Show how specifiers are rewritten before file resolution",
		Long: `Show how specifiers are rewritten before file resolution.

Redirects are applied first. Package specifiers whose root can be found
(through extra_node_modules or a node_modules search that follows
symlinks) are then rewritten relative to the importing file. No file
probing happens; use 'linkres resolve' for that.`,
		Example: `  linkres rewrite --from packages/app/src/index.js shared-lib/utils @babel/core`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, app, from, args)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "file the specifiers are imported from (required)")

	return cmd
}

func runRewrite(cmd *cobra.Command, app *App, from string, specifiers []string) error {
	sess, err := app.newSession(cmd.Context())
	if err != nil {
		return app.fail(cmd, err)
	}
	ctx, err := sess.contextFrom(from)
	if err != nil {
		return app.fail(cmd, err)
	}

	var failed bool
	for _, specifier := range specifiers {
		redirected := ctx.RedirectModulePath(specifier)
		if redirected.IsEmpty() {
			fmt.Fprintf(app.stdout, "%s %s %s\n", SpecifierStyle.Render(specifier), SubtitleStyle.Render("->"), WarningStyle.Render(redirected.String()))
			continue
		}

		rewritten, err := sess.engine.RewriteSpecifier(ctx, redirected.Specifier())
		if err != nil {
			app.printError(explainError("rewrite specifier", specifier, err))
			failed = true
			continue
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SpecifierStyle.Render(specifier), SubtitleStyle.Render("->"), SuccessStyle.Render(fspath.ToSlash(types.FilesystemPath(rewritten))))
	}
	if failed {
		return silentExit(cmd)
	}
	return nil
}
