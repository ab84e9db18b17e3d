// SPDX-License-Identifier: MPL-2.0

// Package resolver implements the symlink-aware module resolution engine.
//
// Given a specifier imported from a known origin file, the Engine applies the
// context's redirect rules and classifies the specifier. For a package it
// locates the package's real root, either from the context's override table
// or by searching node_modules directories upward from the origin. It then
// rewrites the specifier into a path relative to the origin's directory and
// hands that to the injected downstream resolver, which performs the
// bundler's ordinary extension and platform probing.
//
// The Engine holds no mutable state and never caches results; wrap it at the
// call site if caching is needed.
package resolver
