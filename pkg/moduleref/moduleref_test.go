// SPDX-License-Identifier: MPL-2.0

package moduleref

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		want      Ref
	}{
		{"./Button", FileRef{Path: "./Button"}},
		{"../lib/utils.js", FileRef{Path: "../lib/utils.js"}},
		{".", FileRef{Path: "."}},
		{"/abs/path/index.js", FileRef{Path: "/abs/path/index.js"}},
		{".hidden/file", FileRef{Path: ".hidden/file"}},
		{"lodash", PackageRef{Name: "lodash"}},
		{"lodash/fp/map", PackageRef{Name: "lodash", Subpath: "fp/map"}},
		{"is-odd", PackageRef{Name: "is-odd"}},
		{"shared-lib/utils", PackageRef{Name: "shared-lib", Subpath: "utils"}},
		{"@scope/name", PackageRef{Scope: "scope", Name: "name"}},
		{"@scope/name/subpath", PackageRef{Scope: "scope", Name: "name", Subpath: "subpath"}},
		{"@babel/runtime/helpers/esm/extends", PackageRef{Scope: "babel", Name: "runtime", Subpath: "helpers/esm/extends"}},
		{"react-native/Libraries/Image/Image", PackageRef{Name: "react-native", Subpath: "Libraries/Image/Image"}},
		{"lodash/", PackageRef{Name: "lodash"}},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.specifier)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.specifier, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.specifier, got, tt.want)
			}
			if IsFileRef(got) != (tt.want.Kind() == KindFile) {
				t.Errorf("IsFileRef(Parse(%q)) = %v, want %v", tt.specifier, IsFileRef(got), tt.want.Kind() == KindFile)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		reason    string
	}{
		{"", "must be non-empty"},
		{"@scope", "scoped package is missing a name"},
		{"@scope/", "scoped package is missing a name"},
		{"@/name", "scope must be non-empty"},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			t.Parallel()
			ref, err := Parse(tt.specifier)
			if err == nil {
				t.Fatalf("Parse(%q) = %#v, want error", tt.specifier, ref)
			}
			if !errors.Is(err, ErrInvalidSpecifier) {
				t.Errorf("error should wrap ErrInvalidSpecifier, got: %v", err)
			}
			var specErr *InvalidSpecifierError
			if !errors.As(err, &specErr) {
				t.Fatalf("error should be *InvalidSpecifierError, got: %T", err)
			}
			if specErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", specErr.Reason, tt.reason)
			}
		})
	}
}

func TestPackageRef_FullNameAndString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		fullName  string
	}{
		{"lodash", "lodash"},
		{"lodash/fp", "lodash"},
		{"@scope/name", "@scope/name"},
		{"@scope/name/deep/sub/path", "@scope/name"},
	}

	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			t.Parallel()
			ref, ok := MustParse(tt.specifier).(PackageRef)
			if !ok {
				t.Fatalf("MustParse(%q) is not a PackageRef", tt.specifier)
			}
			if got := string(ref.FullName()); got != tt.fullName {
				t.Errorf("FullName() = %q, want %q", got, tt.fullName)
			}
			if err := ref.FullName().Validate(); err != nil {
				t.Errorf("FullName().Validate() returned error: %v", err)
			}
			if got := ref.String(); got != tt.specifier {
				t.Errorf("String() = %q, want %q", got, tt.specifier)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if KindFile.String() != "file" || KindPackage.String() != "package" {
		t.Errorf("Kind strings = %q, %q", KindFile, KindPackage)
	}
	if got := Kind(0).String(); got != "Kind(0)" {
		t.Errorf("Kind(0).String() = %q, want %q", got, "Kind(0)")
	}
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParse(\"\") did not panic")
		}
	}()
	MustParse("")
}
