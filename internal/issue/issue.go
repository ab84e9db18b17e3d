// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidSpecifierId
	ModuleNotFoundId
	InvalidOriginId
	InvalidRedirectId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

linkres could not read or validate its configuration file.

## Search locations (in order of precedence):
1. The file passed with ` + "`--config`" + `
2. ` + "`linkres.cue`" + ` in the current directory
3. ` + "`linkres/linkres.cue`" + ` in your user configuration directory

## Things you can try:
- Check the error above for the field path and line/column
- Print the effective configuration:
~~~
$ linkres config show
~~~

## Example configuration:
~~~cue
platform: "ios"
extra_node_modules: {
  "shared-lib": "/repo/packages/shared-lib"
}
redirects: [
  {from: "react-native", to: "react-native-web"},
]
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	invalidSpecifierIssue = &Issue{
		id: InvalidSpecifierId,
		mdMsg: `
# Invalid module specifier!

A specifier must be a relative path (` + "`./foo`" + `), an absolute path (` + "`/abs/foo`" + `),
a package (` + "`lodash`, `lodash/fp`" + `) or a scoped package (` + "`@scope/name/sub`" + `).

## Common mistakes:
- An empty string
- A scope without a package name, such as ` + "`@babel`" + ` or ` + "`@babel/`" + `
- An empty scope, such as ` + "`@/core`" + `

## Things you can try:
~~~
$ linkres parse @babel/core/lib/index
~~~`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/using-npm/scope"},
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

The specifier was rewritten but no file matched it for the requested platform.

## Things you can try:
- Check that the package is installed, or add it to ` + "`extra_node_modules`" + `
- Check the configured ` + "`source_exts`" + ` and the ` + "`--platform`" + ` flag
- See how the specifier is rewritten before probing:
~~~
$ linkres rewrite --from ./src/index.js shared-lib/utils
~~~

- Run with verbose mode to trace every candidate:
~~~
$ linkres --verbose resolve --from ./src/index.js shared-lib/utils
~~~`,
		extLinks: []HttpLink{"https://metrobundler.dev/docs/resolution"},
	}

	invalidOriginIssue = &Issue{
		id: InvalidOriginId,
		mdMsg: `
# Invalid origin module!

Package specifiers are resolved relative to the importing file, which must be
given with ` + "`--from`" + ` and must resolve to an absolute path.

## Things you can try:
~~~
$ linkres resolve --from ./src/index.js lodash
~~~`,
	}

	invalidRedirectIssue = &Issue{
		id: InvalidRedirectId,
		mdMsg: `
# Invalid redirect rule!

Every rule needs a ` + "`from`" + ` specifier and exactly one of ` + "`to`" + ` or ` + "`empty: true`" + `.

## Example:
~~~cue
redirects: [
  {from: "react-native", to: "react-native-web"},
  {from: "react-native-reanimated", empty: true},
]
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		invalidSpecifierIssue.Id(): invalidSpecifierIssue,
		moduleNotFoundIssue.Id():   moduleNotFoundIssue,
		invalidOriginIssue.Id():    invalidOriginIssue,
		invalidRedirectIssue.Id():  invalidRedirectIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
