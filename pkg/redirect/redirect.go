// SPDX-License-Identifier: MPL-2.0

// Package redirect implements redirect rules applied to a specifier before it
// is resolved: a rule either swaps the specifier for another one or voids the
// module entirely, so the bundler substitutes an empty module (for example a
// native-only package on the web platform).
package redirect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidRule is the sentinel error wrapped by InvalidRuleError.
	ErrInvalidRule = errors.New("invalid redirect rule")
	// ErrDuplicateRule is returned by NewTable when two rules share a source.
	ErrDuplicateRule = errors.New("duplicate redirect rule")
)

type (
	// Result is the outcome of a redirect lookup: either the specifier to
	// resolve next or the empty-module sentinel. The zero value is invalid;
	// build values with Keep, To or Empty.
	Result struct {
		specifier string
		empty     bool
	}

	// Redirector is the redirect capability of a resolution context.
	Redirector interface {
		RedirectModulePath(specifier string) Result
	}

	// Func adapts a plain function to Redirector.
	Func func(specifier string) Result

	// Rule maps one exact specifier to a replacement or to the empty module.
	Rule struct {
		From  string `json:"from" toml:"from"`
		To    string `json:"to,omitempty" toml:"to,omitempty"`
		Empty bool   `json:"empty,omitempty" toml:"empty,omitempty"`
	}

	// InvalidRuleError is returned when a Rule is malformed.
	InvalidRuleError struct {
		Rule   Rule
		Reason string
	}

	// Table is an immutable set of rules keyed by source specifier.
	// Specifiers without a rule are kept unchanged.
	Table struct {
		rules map[string]Rule
	}
)

// Identity keeps every specifier unchanged.
var Identity Redirector = Func(Keep)

// Keep returns a Result that resolves specifier as-is.
func Keep(specifier string) Result { return Result{specifier: specifier} }

// To returns a Result that resolves replacement instead of the original.
func To(replacement string) Result { return Result{specifier: replacement} }

// Empty returns the Result meaning "do not resolve, use an empty module".
func Empty() Result { return Result{empty: true} }

// IsEmpty reports whether the module was redirected to nothing.
func (r Result) IsEmpty() bool { return r.empty }

// Specifier returns the specifier to resolve. It is "" for empty results.
func (r Result) Specifier() string { return r.specifier }

// String renders the result for logs.
func (r Result) String() string {
	if r.empty {
		return "<empty>"
	}
	return r.specifier
}

// RedirectModulePath implements Redirector.
func (f Func) RedirectModulePath(specifier string) Result { return f(specifier) }

// Validate checks that the rule has a source and exactly one of a
// replacement or the empty flag.
func (r Rule) Validate() error {
	switch {
	case strings.TrimSpace(r.From) == "":
		return &InvalidRuleError{Rule: r, Reason: "from must be non-empty"}
	case r.Empty && r.To != "":
		return &InvalidRuleError{Rule: r, Reason: "to and empty are mutually exclusive"}
	case !r.Empty && strings.TrimSpace(r.To) == "":
		return &InvalidRuleError{Rule: r, Reason: "either to or empty must be set"}
	}
	return nil
}

// Result converts the rule into its lookup outcome.
func (r Rule) Result() Result {
	if r.Empty {
		return Empty()
	}
	return To(r.To)
}

// Error implements the error interface for InvalidRuleError.
func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid redirect rule for %q: %s", e.Rule.From, e.Reason)
}

// Unwrap returns ErrInvalidRule for errors.Is() compatibility.
func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }

// NewTable validates rules and builds a Table. Sources must be unique.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("redirects[%d]: %w", i, err)
		}
		if _, exists := t.rules[rule.From]; exists {
			return nil, fmt.Errorf("redirects[%d]: %w: %q", i, ErrDuplicateRule, rule.From)
		}
		t.rules[rule.From] = rule
	}
	return t, nil
}

// Lookup returns the outcome of the rule registered for specifier, or
// Keep(specifier) when there is none. A nil Table keeps every specifier.
func (t *Table) Lookup(specifier string) Result {
	if t == nil {
		return Keep(specifier)
	}
	if rule, ok := t.rules[specifier]; ok {
		return rule.Result()
	}
	return Keep(specifier)
}

// RedirectModulePath implements Redirector.
func (t *Table) RedirectModulePath(specifier string) Result { return t.Lookup(specifier) }

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns the rules sorted by source specifier.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Rule) int { return strings.Compare(a.From, b.From) })
	return out
}
