// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName is a bare npm package name, optionally scoped: "lodash" or
	// "@babel/core". It never carries a subpath.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is not a bare
	// (optionally scoped) package name.
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// IsScoped reports whether the name starts with an "@scope/" namespace.
func (n PackageName) IsScoped() bool { return strings.HasPrefix(string(n), "@") }

// Validate returns an error unless the name is "name" or "@scope/name" with
// non-empty segments that do not start with "." and contain no backslashes.
func (n PackageName) Validate() error {
	s := string(n)
	if s == "" || strings.ContainsAny(s, "\\ \t\n") {
		return &InvalidPackageNameError{Value: n}
	}

	segments := strings.Split(s, "/")
	want := 1
	if n.IsScoped() {
		want = 2
		segments[0] = strings.TrimPrefix(segments[0], "@")
	}
	if len(segments) != want {
		return &InvalidPackageNameError{Value: n}
	}
	for _, seg := range segments {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return &InvalidPackageNameError{Value: n}
		}
	}
	return nil
}

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: expected \"name\" or \"@scope/name\"", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
