// SPDX-License-Identifier: MPL-2.0

// Package types holds the small validated value types shared across linkres:
// filesystem paths, bundler platform tags and bare package names.
//
// Every type follows the same pattern: a string-backed type with a Validate
// method returning a typed *InvalidXError that unwraps to a package-level
// ErrInvalidX sentinel.
package types
