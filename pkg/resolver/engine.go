// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/moduleref"
	"github.com/invowk/linkres/pkg/types"
)

// DefaultConcurrency bounds the worker pool used by ResolveMany.
const DefaultConcurrency = 8

var (
	// ErrInvalidOrigin is returned when a package specifier is resolved from
	// a context whose origin is not an absolute path.
	ErrInvalidOrigin = errors.New("invalid origin module path")
	// ErrNoDownstream is returned by New when no downstream resolver is given.
	ErrNoDownstream = errors.New("downstream resolver is required")
)

type (
	// Downstream is the bundler's default resolver. It receives the
	// rewritten specifier and the caller's platform; its result is returned
	// to the caller verbatim.
	Downstream func(ctx Context, specifier string, platform types.Platform) (Resolution, error)

	// Engine rewrites package specifiers to origin-relative paths through
	// their real, symlink-resolved roots before delegating to Downstream.
	// It is safe for concurrent use.
	Engine struct {
		downstream  Downstream
		logger      *log.Logger
		concurrency int
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Result pairs a specifier with its resolution in ResolveMany output.
	Result struct {
		Specifier  string
		Resolution Resolution
		Err        error
	}
)

// WithLogger routes the engine's debug output to logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConcurrency sets the number of workers used by ResolveMany. Values
// below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine delegating to downstream.
func New(downstream Downstream, opts ...Option) (*Engine, error) {
	if downstream == nil {
		return nil, ErrNoDownstream
	}
	e := &Engine{
		downstream:  downstream,
		logger:      log.New(io.Discard),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Resolve resolves specifier as imported from ctx.OriginModulePath().
//
// A specifier redirected to nothing yields EmptyResolution without reaching
// the downstream resolver. Otherwise the (possibly redirected) specifier is
// rewritten by RewriteSpecifier, converted to forward slashes and passed to
// the downstream resolver together with platform.
func (e *Engine) Resolve(ctx Context, specifier string, platform types.Platform) (Resolution, error) {
	redirected := ctx.RedirectModulePath(specifier)
	if redirected.IsEmpty() {
		e.logger.Debug("redirected to empty module", "specifier", specifier)
		return EmptyResolution(), nil
	}
	working := redirected.Specifier()
	if working != specifier {
		e.logger.Debug("redirected specifier", "from", specifier, "to", working)
	}

	rewritten, err := e.RewriteSpecifier(ctx, working)
	if err != nil {
		return Resolution{}, err
	}

	return e.downstream(ctx, fspath.ToSlash(types.FilesystemPath(rewritten)), platform)
}

// RewriteSpecifier returns specifier rewritten relative to the origin's
// directory when it names a package whose root can be located. File
// specifiers and packages that cannot be located are returned unchanged.
// The result uses the host path separator.
func (e *Engine) RewriteSpecifier(ctx Context, specifier string) (string, error) {
	ref, err := moduleref.Parse(specifier)
	if err != nil {
		return "", err
	}

	pkg, ok := ref.(moduleref.PackageRef)
	if !ok {
		return specifier, nil
	}

	origin := ctx.OriginModulePath()
	if !fspath.IsAbs(origin) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}

	name := pkg.FullName()
	root, ok := ctx.ExtraNodeModule(name)
	if ok {
		e.logger.Debug("using extra node module", "package", name, "root", root)
	} else if root, ok = ctx.FindPackageRoot(name, origin); !ok {
		e.logger.Debug("package root not found, deferring to downstream", "package", name)
		return specifier, nil
	}

	target := root
	if pkg.Subpath != "" {
		target = fspath.JoinStr(root, filepath.FromSlash(pkg.Subpath))
	}

	rel, err := fspath.Rel(fspath.Dir(origin), target)
	if err != nil {
		// No relative form exists (e.g. another volume); hand over the
		// absolute path, which downstream treats as a file reference.
		e.logger.Debug("using absolute package path", "package", name, "target", target, "err", err)
		return string(target), nil
	}

	rewritten := string(rel)
	if !strings.HasPrefix(rewritten, ".") {
		rewritten = "." + string(filepath.Separator) + rewritten
	}
	e.logger.Debug("rewrote specifier", "specifier", specifier, "rewritten", rewritten)
	return rewritten, nil
}

// ResolveMany resolves every specifier from the same context on a bounded
// worker pool. Results are in input order; a failure for one specifier does
// not affect the others.
func (e *Engine) ResolveMany(ctx Context, specifiers []string, platform types.Platform) []Result {
	mapper := iter.Mapper[string, Result]{MaxGoroutines: e.concurrency}
	return mapper.Map(specifiers, func(specifier *string) Result {
		res, err := e.Resolve(ctx, *specifier, platform)
		return Result{Specifier: *specifier, Resolution: res, Err: err}
	})
}
