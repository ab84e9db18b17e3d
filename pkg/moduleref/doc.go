// SPDX-License-Identifier: MPL-2.0

// Package moduleref classifies import/require specifiers.
//
// A specifier is either a file reference (it starts with "." or "/", so it
// already names a path relative to the importing file or the filesystem
// root) or a package reference ("lodash", "lodash/fp", "@babel/core/lib/x").
// Package references are split into an optional scope, the package name and
// the subpath below the package root.
//
// Parsing is pure: no filesystem access happens here.
package moduleref
