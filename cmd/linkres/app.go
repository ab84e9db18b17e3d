// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/invowk/linkres/internal/config"
	"github.com/invowk/linkres/internal/downstream"
	"github.com/invowk/linkres/internal/issue"
	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/moduleref"
	"github.com/invowk/linkres/pkg/pkgroot"
	"github.com/invowk/linkres/pkg/resolver"
	"github.com/invowk/linkres/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and builds
	// a session from it.
	App struct {
		Config    ConfigProvider
		Workspace Workspace
		stdout    io.Writer
		stderr    io.Writer
		opts      rootOptions
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Workspace Workspace
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Workspace is the filesystem packages are searched and probed on. Both
	// pkgroot.OSFS and pkgroot.MemFS satisfy it.
	Workspace interface {
		pkgroot.FS
		Afero() afero.Fs
	}

	// rootOptions holds the persistent flag values.
	rootOptions struct {
		verbose     bool
		configFile  string
		platform    string
		projectRoot string
	}

	// session is the per-invocation resolver stack built from the effective
	// configuration.
	session struct {
		engine   *resolver.Engine
		base     *resolver.StaticContext
		platform types.Platform
		root     string
	}
)

// NewApp creates an App with production defaults for any nil dependency.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Workspace == nil {
		deps.Workspace = pkgroot.NewOSFS()
	}

	return &App{
		Config:    deps.Config,
		Workspace: deps.Workspace,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}, nil
}

// loadConfig loads the configuration and applies the persistent flag overrides.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.opts.configFile})
	if err != nil {
		return nil, err
	}

	if a.opts.platform != "" {
		platform := types.Platform(a.opts.platform)
		if err := platform.Validate(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("parse flags").
				WithResource("--platform").
				WithSuggestion("Use a platform tag such as ios, android or web").
				Wrap(err).
				BuildError()
		}
		cfg.Platform = platform
	}

	if a.opts.projectRoot != "" {
		root, err := filepath.Abs(a.opts.projectRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving --project-root: %w", err)
		}
		cfg.ProjectRoot = root
	}

	return cfg, nil
}

// newSession builds the resolver stack for one command invocation.
func (a *App) newSession(ctx context.Context) (*session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if a.opts.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "linkres", Level: level})

	redirects, err := cfg.RedirectTable()
	if err != nil {
		return nil, err
	}

	files := downstream.New(a.Workspace.Afero(),
		downstream.WithSourceExts(cfg.SourceExts...),
		downstream.WithAssetExts(cfg.AssetExts...),
		downstream.WithLogger(logger.WithPrefix("downstream")),
	)
	engine, err := resolver.New(files.Resolve, resolver.WithLogger(logger.WithPrefix("resolver")))
	if err != nil {
		return nil, err
	}

	root := cfg.ProjectRoot
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
	}

	return &session{
		engine: engine,
		base: &resolver.StaticContext{
			ExtraNodeModules: cfg.ExtraNodeModulePaths(),
			Redirects:        redirects,
			Finder:           pkgroot.NewFinder(a.Workspace, pkgroot.WithLogger(logger.WithPrefix("pkgroot"))),
		},
		platform: cfg.Platform,
		root:     root,
	}, nil
}

// contextFrom returns a resolution context importing from the --from file.
// Relative paths are taken against the project root.
func (s *session) contextFrom(from string) (*resolver.StaticContext, error) {
	if from == "" {
		return nil, issue.NewErrorContext().
			WithOperation("resolve module").
			WithResource("--from").
			WithIssue(issue.InvalidOriginId).
			WithSuggestion("Pass the importing file with --from, e.g. --from ./src/index.js").
			Wrap(resolver.ErrInvalidOrigin).
			BuildError()
	}

	origin := types.FilesystemPath(from)
	if !fspath.IsAbs(origin) {
		origin = fspath.JoinStr(types.FilesystemPath(s.root), from)
	}
	return s.base.WithOrigin(fspath.Clean(origin)), nil
}

// printError writes a formatted error to stderr, followed by the linked
// catalog entry in verbose mode.
func (a *App) printError(err error) {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.opts.verbose))
	if !a.opts.verbose {
		return
	}
	var notFound *downstream.ModuleNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("\nCandidates tried:"))
		for _, p := range notFound.Tried {
			fmt.Fprintln(a.stderr, "  "+p.String())
		}
	}
	ae, ok := issue.AsActionable(err)
	if !ok || ae.Issue() == nil {
		return
	}
	if rendered, renderErr := ae.Issue().Render("auto"); renderErr == nil {
		fmt.Fprint(a.stderr, rendered)
	}
}

// fail reports err and returns the ExitError that ends the command. The
// error has already been printed, so Cobra is told to stay quiet.
func (a *App) fail(cmd *cobra.Command, err error) error {
	a.printError(err)
	return silentExit(cmd)
}

// silentExit ends cmd with exit code 1 after its errors have been printed.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1}
}

// explainError links a failure of operation on specifier to its catalog
// entry and adds suggestions. ActionableErrors are returned unchanged.
func explainError(operation, specifier string, err error) error {
	if _, ok := issue.AsActionable(err); ok {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(specifier)

	var notFound *downstream.ModuleNotFoundError
	switch {
	case errors.Is(err, moduleref.ErrInvalidSpecifier):
		ctx.WithIssue(issue.InvalidSpecifierId).
			WithSuggestion(`Use a relative path, an absolute path, "name[/subpath]" or "@scope/name[/subpath]"`)
	case errors.Is(err, resolver.ErrInvalidOrigin):
		ctx.WithIssue(issue.InvalidOriginId).
			WithSuggestion("Pass an importing file with --from")
	case errors.As(err, &notFound):
		ctx.WithIssue(issue.ModuleNotFoundId).
			WithSuggestion(fmt.Sprintf("%d candidate paths were probed; rerun with --verbose to list them", len(notFound.Tried))).
			WithSuggestion("Check that the package is installed or listed under extra_node_modules")
	}

	return ctx.Wrap(err).BuildError()
}
