// SPDX-License-Identifier: MPL-2.0

package moduleref

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/linkres/pkg/types"
)

const (
	// KindFile marks a relative or absolute path specifier.
	KindFile Kind = iota + 1
	// KindPackage marks a bare or scoped package specifier.
	KindPackage
)

// ErrInvalidSpecifier is the sentinel error wrapped by InvalidSpecifierError.
var ErrInvalidSpecifier = errors.New("invalid specifier")

type (
	// Kind discriminates the Ref variants.
	Kind int

	// Ref is a classified specifier. The only implementations are FileRef and
	// PackageRef; switch on the concrete type or on Kind().
	Ref interface {
		Kind() Kind
		// String reconstructs the specifier the reference was parsed from.
		String() string
		isRef()
	}

	// FileRef is a specifier that already names a filesystem path.
	FileRef struct {
		Path string
	}

	// PackageRef is a specifier that goes through package lookup.
	PackageRef struct {
		// Scope is the npm scope without the leading "@", empty when unscoped.
		Scope string
		// Name is the package name within the scope. Never empty.
		Name string
		// Subpath is everything after the package name, without a leading
		// slash. Empty when the specifier names the package itself.
		Subpath string
	}

	// InvalidSpecifierError is returned by Parse for specifiers that cannot be
	// classified.
	InvalidSpecifierError struct {
		Specifier string
		Reason    string
	}
)

// Kind implements Ref.
func (FileRef) Kind() Kind { return KindFile }

// String returns the path as written.
func (r FileRef) String() string { return r.Path }

func (FileRef) isRef() {}

// Kind implements Ref.
func (PackageRef) Kind() Kind { return KindPackage }

// FullName returns "@scope/name" for scoped packages and "name" otherwise.
func (r PackageRef) FullName() types.PackageName {
	if r.Scope != "" {
		return types.PackageName("@" + r.Scope + "/" + r.Name)
	}
	return types.PackageName(r.Name)
}

// String returns the full name followed by the subpath, if any.
func (r PackageRef) String() string {
	if r.Subpath == "" {
		return string(r.FullName())
	}
	return string(r.FullName()) + "/" + r.Subpath
}

func (PackageRef) isRef() {}

// String returns the kind name used in CLI output.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindPackage:
		return "package"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements the error interface for InvalidSpecifierError.
func (e *InvalidSpecifierError) Error() string {
	return fmt.Sprintf("invalid specifier %q: %s", e.Specifier, e.Reason)
}

// Unwrap returns ErrInvalidSpecifier for errors.Is() compatibility.
func (e *InvalidSpecifierError) Unwrap() error { return ErrInvalidSpecifier }

// Parse classifies specifier. Anything starting with "." or "/" is a FileRef;
// everything else is a PackageRef whose first segment (or first two segments,
// when the first starts with "@") is the package name.
func Parse(specifier string) (Ref, error) {
	if specifier == "" {
		return nil, &InvalidSpecifierError{Specifier: specifier, Reason: "must be non-empty"}
	}

	if specifier[0] == '.' || specifier[0] == '/' {
		return FileRef{Path: specifier}, nil
	}

	segments := strings.Split(specifier, "/")
	if !strings.HasPrefix(segments[0], "@") {
		return PackageRef{
			Name:    segments[0],
			Subpath: strings.Join(segments[1:], "/"),
		}, nil
	}

	scope := strings.TrimPrefix(segments[0], "@")
	if scope == "" {
		return nil, &InvalidSpecifierError{Specifier: specifier, Reason: "scope must be non-empty"}
	}
	if len(segments) < 2 || segments[1] == "" {
		return nil, &InvalidSpecifierError{Specifier: specifier, Reason: "scoped package is missing a name"}
	}

	return PackageRef{
		Scope:   scope,
		Name:    segments[1],
		Subpath: strings.Join(segments[2:], "/"),
	}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables of known-good specifiers.
func MustParse(specifier string) Ref {
	ref, err := Parse(specifier)
	if err != nil {
		panic(err)
	}
	return ref
}

// IsFileRef reports whether ref is a FileRef.
func IsFileRef(ref Ref) bool {
	_, ok := ref.(FileRef)
	return ok
}
