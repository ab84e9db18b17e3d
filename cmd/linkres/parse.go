// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/linkres/pkg/moduleref"
)

func newParseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <specifier>...",
		Short: "Classify module specifiers as file or package references",
		Long: `Classify module specifiers as file or package references.

Specifiers starting with "." or "/" are file references and are never
rewritten. Everything else is a package reference split into its scope,
package name and subpath.`,
		Example: `  linkres parse ./utils @babel/core/lib/index lodash`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, app, args)
		},
	}
}

func runParse(cmd *cobra.Command, app *App, specifiers []string) error {
	var failed error
	for _, specifier := range specifiers {
		ref, err := moduleref.Parse(specifier)
		if err != nil {
			app.printError(explainError("parse specifier", specifier, err))
			failed = err
			continue
		}
		fmt.Fprintf(app.stdout, "%s %s\n", SpecifierStyle.Render(specifier), describeRef(ref))
	}
	if failed != nil {
		return silentExit(cmd)
	}
	return nil
}

// describeRef renders ref as space-separated key=value fields. Empty
// optional fields are omitted.
func describeRef(ref moduleref.Ref) string {
	fields := []string{"kind=" + ref.Kind().String()}
	switch r := ref.(type) {
	case moduleref.FileRef:
		fields = append(fields, "path="+r.Path)
	case moduleref.PackageRef:
		fields = append(fields, "package="+r.FullName().String())
		if r.Scope != "" {
			fields = append(fields, "scope="+r.Scope)
		}
		fields = append(fields, "name="+r.Name)
		if r.Subpath != "" {
			fields = append(fields, "subpath="+r.Subpath)
		}
	}
	return strings.Join(fields, " ")
}
