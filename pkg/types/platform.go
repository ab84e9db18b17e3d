// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PlatformIOS targets iOS bundles.
	PlatformIOS Platform = "ios"
	// PlatformAndroid targets Android bundles.
	PlatformAndroid Platform = "android"
	// PlatformMacOS targets react-native-macos bundles.
	PlatformMacOS Platform = "macos"
	// PlatformWindows targets react-native-windows bundles.
	PlatformWindows Platform = "windows"
	// PlatformWeb targets web bundles. Web is not a native platform.
	PlatformWeb Platform = "web"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform is the bundler platform tag passed through resolution untouched.
	// Out-of-tree platforms are allowed; the value only needs to be a single
	// lowercase-insensitive word without separators.
	Platform string

	// InvalidPlatformError is returned when a Platform value is empty or contains
	// whitespace, dots or path separators.
	InvalidPlatformError struct {
		Value Platform
	}
)

// String returns the string representation of the Platform.
func (p Platform) String() string { return string(p) }

// IsNative reports whether files suffixed with ".native" apply to this platform.
func (p Platform) IsNative() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformMacOS, PlatformWindows:
		return true
	default:
		return false
	}
}

// Validate returns an error if the platform cannot be used as a file suffix.
func (p Platform) Validate() error {
	s := string(p)
	if s == "" || strings.ContainsAny(s, " \t\n./\\") {
		return &InvalidPlatformError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidPlatformError.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q: must be a single word without separators", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }
