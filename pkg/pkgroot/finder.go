// SPDX-License-Identifier: MPL-2.0

package pkgroot

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/types"
)

// NodeModulesDir is the package installation directory name searched in
// every ancestor of the importing file.
const NodeModulesDir = "node_modules"

type (
	// Finder searches the filesystem for installed packages. It holds no
	// mutable state and is safe for concurrent use.
	Finder struct {
		fs     FS
		logger *log.Logger
	}

	// Option configures a Finder.
	Option func(*Finder)
)

// WithLogger routes the finder's debug output (skipped candidates, resolved
// roots) to logger.
func WithLogger(logger *log.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFinder creates a Finder over fsys.
func NewFinder(fsys FS, opts ...Option) *Finder {
	f := &Finder{
		fs:     fsys,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the real directory of package name as seen from the file at
// origin. Candidates are "<dir>/node_modules/<name>" for the origin's
// directory and each ancestor, nearest first; directories that are
// themselves named node_modules are skipped. A candidate that cannot be
// inspected (permission denied, broken or cyclic symlink) is treated as
// absent and the walk continues upward. ok is false when no candidate exists.
func (f *Finder) Find(name types.PackageName, origin types.FilesystemPath) (root types.FilesystemPath, ok bool) {
	for _, dir := range f.fs.ListAncestors(fspath.Dir(origin)) {
		if fspath.Base(dir) == NodeModulesDir {
			continue
		}

		candidate := fspath.JoinStr(dir, NodeModulesDir, string(name))
		exists, err := f.fs.DirectoryExists(candidate)
		if err != nil {
			f.logger.Debug("skipping package candidate", "package", name, "path", candidate, "err", err)
			continue
		}
		if !exists {
			continue
		}

		realRoot, err := Realpath(f.fs, candidate)
		if err != nil {
			f.logger.Debug("skipping unresolvable package candidate", "package", name, "path", candidate, "err", err)
			continue
		}

		f.logger.Debug("found package root", "package", name, "path", candidate, "root", realRoot)
		return realRoot, true
	}

	f.logger.Debug("package root not found", "package", name, "origin", origin)
	return "", false
}
