// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/invowk/linkres/internal/downstream"
	"github.com/invowk/linkres/pkg/redirect"
	"github.com/invowk/linkres/pkg/types"
)

const (
	// DefaultPlatform is used when no platform is configured.
	DefaultPlatform = types.PlatformIOS
	// DefaultLogLevel is used when no log level is configured.
	DefaultLogLevel = "info"
)

// ErrInvalidConfig is the sentinel error wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	// Config is the effective linkres configuration.
	Config struct {
		ProjectRoot      string            `json:"project_root,omitempty" toml:"project_root,omitempty" mapstructure:"project_root"`
		Platform         types.Platform    `json:"platform" toml:"platform" mapstructure:"platform"`
		SourceExts       []string          `json:"source_exts" toml:"source_exts" mapstructure:"source_exts"`
		AssetExts        []string          `json:"asset_exts" toml:"asset_exts" mapstructure:"asset_exts"`
		LogLevel         string            `json:"log_level" toml:"log_level" mapstructure:"log_level"`
		ExtraNodeModules map[string]string `json:"extra_node_modules,omitempty" toml:"extra_node_modules,omitempty" mapstructure:"-"`
		Redirects        []redirect.Rule   `json:"redirects,omitempty" toml:"redirects,omitempty" mapstructure:"-"`

		source string
	}

	// fileConfig mirrors #Config. Pointer and nil-able fields distinguish
	// "absent" from "set to the zero value".
	fileConfig struct {
		ProjectRoot      *string           `json:"project_root"`
		Platform         *string           `json:"platform"`
		SourceExts       []string          `json:"source_exts"`
		AssetExts        []string          `json:"asset_exts"`
		LogLevel         *string           `json:"log_level"`
		ExtraNodeModules map[string]string `json:"extra_node_modules"`
		Redirects        []redirect.Rule   `json:"redirects"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Platform:   DefaultPlatform,
		SourceExts: slices.Clone(downstream.DefaultSourceExts),
		AssetExts:  slices.Clone(downstream.DefaultAssetExts),
		LogLevel:   DefaultLogLevel,
	}
}

// Source returns the file the configuration was loaded from, or "" when
// only defaults and environment variables apply.
func (c *Config) Source() string { return c.source }

// Validate checks the constraints the CUE schema cannot express and returns
// every violation joined.
func (c *Config) Validate() error {
	var errs []error

	if c.ProjectRoot != "" {
		if err := types.FilesystemPath(c.ProjectRoot).ValidateAbsolute(); err != nil {
			errs = append(errs, fmt.Errorf("project_root: %w", err))
		}
	}
	if err := c.Platform.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("platform: %w", err))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	for _, name := range slices.Sorted(maps.Keys(c.ExtraNodeModules)) {
		if err := types.PackageName(name).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("extra_node_modules: %w", err))
		}
		if err := types.FilesystemPath(c.ExtraNodeModules[name]).ValidateAbsolute(); err != nil {
			errs = append(errs, fmt.Errorf("extra_node_modules[%q]: %w", name, err))
		}
	}
	if _, err := redirect.NewTable(c.Redirects...); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// RedirectTable builds the redirect table from the configured rules.
func (c *Config) RedirectTable() (*redirect.Table, error) {
	return redirect.NewTable(c.Redirects...)
}

// ExtraNodeModulePaths returns the override table in resolver form.
func (c *Config) ExtraNodeModulePaths() map[types.PackageName]types.FilesystemPath {
	out := make(map[types.PackageName]types.FilesystemPath, len(c.ExtraNodeModules))
	for name, dir := range c.ExtraNodeModules {
		out[types.PackageName(name)] = types.FilesystemPath(dir)
	}
	return out
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
