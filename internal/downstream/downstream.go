// SPDX-License-Identifier: MPL-2.0

// Package downstream provides a minimal bundler-style file resolver used as
// the resolver.Engine's delegate by the CLI. It probes platform-specific and
// extension variants of a path the way React Native bundlers do, and falls
// back to a plain node_modules walk for bare specifiers.
package downstream

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/moduleref"
	"github.com/invowk/linkres/pkg/pkgroot"
	"github.com/invowk/linkres/pkg/resolver"
	"github.com/invowk/linkres/pkg/types"
)

// nativePlatformSuffix is probed after the platform suffix on native platforms.
const nativePlatformSuffix = "native"

var (
	// ErrModuleNotFound is the sentinel error wrapped by ModuleNotFoundError.
	ErrModuleNotFound = errors.New("module not found")

	// DefaultSourceExts are probed, in order, when none are configured.
	DefaultSourceExts = []string{"js", "jsx", "ts", "tsx", "json"}

	// DefaultAssetExts are resolved to their scale variants.
	DefaultAssetExts = []string{"png", "jpg", "jpeg", "gif", "webp"}

	assetScales = []string{"", "@1x", "@1.5x", "@2x", "@3x", "@4x"}
)

type (
	// FileResolver resolves rewritten specifiers to files on an afero
	// filesystem. It is safe for concurrent use.
	FileResolver struct {
		fs         afero.Fs
		sourceExts []string
		assetExts  []string
		logger     *log.Logger
	}

	// Option configures a FileResolver.
	Option func(*FileResolver)

	// ModuleNotFoundError reports a specifier that matched no file.
	ModuleNotFoundError struct {
		Specifier string
		Origin    types.FilesystemPath
		Platform  types.Platform
		// Tried lists the candidate paths probed, in order.
		Tried []types.FilesystemPath
	}
)

// WithSourceExts replaces the probed source extensions. Leading dots are
// stripped; an empty list is ignored.
func WithSourceExts(exts ...string) Option {
	return func(r *FileResolver) {
		if len(exts) > 0 {
			r.sourceExts = normalizeExts(exts)
		}
	}
}

// WithAssetExts replaces the asset extensions.
func WithAssetExts(exts ...string) Option {
	return func(r *FileResolver) {
		if len(exts) > 0 {
			r.assetExts = normalizeExts(exts)
		}
	}
}

// WithLogger routes probe tracing to logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *FileResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a FileResolver over fsys.
func New(fsys afero.Fs, opts ...Option) *FileResolver {
	r := &FileResolver{
		fs:         fsys,
		sourceExts: slices.Clone(DefaultSourceExts),
		assetExts:  slices.Clone(DefaultAssetExts),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Error implements the error interface for ModuleNotFoundError.
func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("unable to resolve module %q from %s for platform %s (%d candidates tried)",
		e.Specifier, e.Origin, e.Platform, len(e.Tried))
}

// Unwrap returns ErrModuleNotFound for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// Resolve implements resolver.Downstream.
func (r *FileResolver) Resolve(ctx resolver.Context, specifier string, platform types.Platform) (resolver.Resolution, error) {
	origin := ctx.OriginModulePath()
	notFound := &ModuleNotFoundError{Specifier: specifier, Origin: origin, Platform: platform}

	ref, err := moduleref.Parse(specifier)
	if err != nil {
		return resolver.Resolution{}, err
	}

	var bases []types.FilesystemPath
	native := types.FilesystemPath(filepath.FromSlash(specifier))
	if moduleref.IsFileRef(ref) {
		if fspath.IsAbs(native) {
			bases = append(bases, fspath.Clean(native))
		} else {
			bases = append(bases, fspath.Join(fspath.Dir(origin), native))
		}
	} else {
		for _, dir := range fspath.Ancestors(fspath.Dir(origin)) {
			if fspath.Base(dir) == pkgroot.NodeModulesDir {
				continue
			}
			bases = append(bases, fspath.Join(dir, pkgroot.NodeModulesDir, native))
		}
	}

	for _, base := range bases {
		if res, ok := r.resolveBase(base, platform, notFound); ok {
			r.logger.Debug("resolved module", "specifier", specifier, "resolution", res)
			return res, nil
		}
	}
	return resolver.Resolution{}, notFound
}

func (r *FileResolver) resolveBase(base types.FilesystemPath, platform types.Platform, notFound *ModuleNotFoundError) (resolver.Resolution, bool) {
	if ext := strings.TrimPrefix(filepath.Ext(string(base)), "."); slices.Contains(r.assetExts, ext) {
		if assets := r.assetVariants(base, ext, notFound); len(assets) > 0 {
			return resolver.AssetFiles(assets...), true
		}
		return resolver.Resolution{}, false
	}

	if path, ok := r.probe(base, platform, notFound); ok {
		return resolver.SourceFile(path), true
	}
	if path, ok := r.probe(fspath.JoinStr(base, "index"), platform, notFound); ok {
		return resolver.SourceFile(path), true
	}
	return resolver.Resolution{}, false
}

// probe tries p itself, then for every source extension in order
// p.<platform>.<ext>, p.native.<ext> (native platforms only) and p.<ext>.
func (r *FileResolver) probe(p types.FilesystemPath, platform types.Platform, notFound *ModuleNotFoundError) (types.FilesystemPath, bool) {
	suffixes := []string{"." + string(platform)}
	if platform.IsNative() {
		suffixes = append(suffixes, "."+nativePlatformSuffix)
	}
	suffixes = append(suffixes, "")

	candidates := []types.FilesystemPath{p}
	for _, ext := range r.sourceExts {
		for _, suffix := range suffixes {
			candidates = append(candidates, types.FilesystemPath(string(p)+suffix+"."+ext))
		}
	}

	for _, c := range candidates {
		notFound.Tried = append(notFound.Tried, c)
		if r.isFile(c) {
			return c, true
		}
	}
	return "", false
}

func (r *FileResolver) assetVariants(base types.FilesystemPath, ext string, notFound *ModuleNotFoundError) []types.FilesystemPath {
	stem := strings.TrimSuffix(string(base), "."+ext)
	var found []types.FilesystemPath
	for _, scale := range assetScales {
		c := types.FilesystemPath(stem + scale + "." + ext)
		notFound.Tried = append(notFound.Tried, c)
		if r.isFile(c) {
			found = append(found, c)
		}
	}
	return found
}

func (r *FileResolver) isFile(p types.FilesystemPath) bool {
	info, err := r.fs.Stat(string(p))
	return err == nil && !info.IsDir()
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
