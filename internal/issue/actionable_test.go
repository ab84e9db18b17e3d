// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load config"},
			expected: "failed to load config",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load config", Resource: "./linkres.cue"},
			expected: "failed to load config: ./linkres.cue",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "parse specifier", Cause: errors.New("must be non-empty")},
			expected: "failed to parse specifier: must be non-empty",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "resolve module",
				Resource:  "shared-lib/utils",
				Cause:     errors.New("module not found"),
			},
			expected: "failed to resolve module: shared-lib/utils: module not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	wrapped := fmt.Errorf("context: %w", &ActionableError{Operation: "test", Cause: cause})

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	ae, ok := AsActionable(wrapped)
	if !ok || ae.Operation != "test" {
		t.Errorf("AsActionable() = %v, %v", ae, ok)
	}
	if _, ok := AsActionable(cause); ok {
		t.Error("AsActionable() on a plain error should report false")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "load config",
				Resource:    "./linkres.cue",
				Suggestions: []string{"Run 'linkres config show'", "Check file permissions"},
			},
			contains: []string{
				"failed to load config: ./linkres.cue",
				"• Run 'linkres config show'",
				"• Check file permissions",
			},
		},
		{
			name:     "no error chain in non-verbose",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error")},
			contains: []string{"failed to parse config: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "resolve module",
				Cause: &ActionableError{
					Operation: "probe files",
					Cause:     errors.New("permission denied"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to probe files: permission denied",
				"2. permission denied",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("parse error")
	err := NewErrorContext().
		WithOperation("load config").
		WithResource("/etc/linkres/linkres.cue").
		WithSuggestion("Check syntax").
		WithSuggestions("Verify permissions", "Run with --verbose").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "load config" || err.Resource != "/etc/linkres/linkres.cue" {
		t.Errorf("Build() = %+v", err)
	}
	if len(err.Suggestions) != 3 || !err.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 3", err.Suggestions)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if got := err.Issue(); got == nil || got.Id() != ConfigLoadFailedId {
		t.Errorf("Issue() = %v, want ConfigLoadFailed", got)
	}

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewActionableError("x").Issue() != nil {
		t.Error("Issue() without IssueId should return nil")
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("test").BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Errorf("BuildError() should return *ActionableError, got %T", err)
	}

	if err := NewErrorContext().BuildError(); err != nil {
		t.Error("BuildError() should return nil when operation missing")
	}
}

func TestWrapHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("original error")

	op := WrapWithOperation(cause, "rewrite specifier")
	if op.Operation != "rewrite specifier" || !errors.Is(op, cause) {
		t.Errorf("WrapWithOperation() = %+v", op)
	}

	withCtx := WrapWithContext(cause, "resolve module", "lodash")
	if withCtx.Resource != "lodash" || !errors.Is(withCtx, cause) {
		t.Errorf("WrapWithContext() = %+v", withCtx)
	}

	if WrapWithOperation(nil, "x") != nil || WrapWithContext(nil, "x", "y") != nil {
		t.Error("wrapping a nil error should return nil")
	}
}
