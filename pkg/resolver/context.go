// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"github.com/invowk/linkres/pkg/pkgroot"
	"github.com/invowk/linkres/pkg/redirect"
	"github.com/invowk/linkres/pkg/types"
)

type (
	// Context is the per-call, read-only view of the importing module that
	// the Engine needs. Implementations must be safe for concurrent use when
	// shared between concurrent Resolve calls.
	Context interface {
		// OriginModulePath returns the absolute path of the importing file.
		OriginModulePath() types.FilesystemPath
		// RedirectModulePath applies redirect rules to specifier.
		RedirectModulePath(specifier string) redirect.Result
		// ExtraNodeModule returns the override directory for a package name.
		ExtraNodeModule(name types.PackageName) (dir types.FilesystemPath, ok bool)
		// FindPackageRoot searches the filesystem for the real root of name
		// as seen from origin.
		FindPackageRoot(name types.PackageName, origin types.FilesystemPath) (root types.FilesystemPath, ok bool)
	}

	// StaticContext is the stock Context built from plain values. The zero
	// value has no overrides, keeps every specifier and finds no packages.
	StaticContext struct {
		// Origin is the absolute path of the importing file.
		Origin types.FilesystemPath
		// ExtraNodeModules maps package names to absolute override
		// directories. Entries win over anything found on disk.
		ExtraNodeModules map[types.PackageName]types.FilesystemPath
		// Redirects is consulted before classification. Nil keeps every
		// specifier.
		Redirects redirect.Redirector
		// Finder performs the filesystem search. Nil disables it.
		Finder *pkgroot.Finder
	}
)

// OriginModulePath implements Context.
func (c *StaticContext) OriginModulePath() types.FilesystemPath { return c.Origin }

// RedirectModulePath implements Context.
func (c *StaticContext) RedirectModulePath(specifier string) redirect.Result {
	if c.Redirects == nil {
		return redirect.Keep(specifier)
	}
	return c.Redirects.RedirectModulePath(specifier)
}

// ExtraNodeModule implements Context.
func (c *StaticContext) ExtraNodeModule(name types.PackageName) (types.FilesystemPath, bool) {
	dir, ok := c.ExtraNodeModules[name]
	return dir, ok
}

// FindPackageRoot implements Context.
func (c *StaticContext) FindPackageRoot(name types.PackageName, origin types.FilesystemPath) (types.FilesystemPath, bool) {
	if c.Finder == nil {
		return "", false
	}
	return c.Finder.Find(name, origin)
}

// WithOrigin returns a shallow copy of c importing from origin. The override
// map and redirect table are shared, not copied.
func (c *StaticContext) WithOrigin(origin types.FilesystemPath) *StaticContext {
	cp := *c
	cp.Origin = origin
	return &cp
}
