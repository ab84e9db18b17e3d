// SPDX-License-Identifier: MPL-2.0

// Package pkgroot locates installed packages on disk.
//
// A Finder walks upward from an importing file looking for
// "<ancestor>/node_modules/<package>" and returns the real location of the
// first match. Workspace package managers install packages as symlinks into
// node_modules; the finder resolves those links for the package root only,
// so everything below the root keeps being addressed by plain relative paths.
//
// The filesystem is reached exclusively through the FS capability:
//   - [OSFS]: the host filesystem via afero
//   - [MemFS]: an in-memory fixture with symlink support for tests
package pkgroot
