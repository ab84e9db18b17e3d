// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invowk/linkres/internal/issue"
	"github.com/invowk/linkres/pkg/cueutil"
	"github.com/invowk/linkres/pkg/redirect"
)

const (
	// AppName is the application name.
	AppName = "linkres"
	// ConfigFileName is the config file name looked up in the working and
	// user configuration directories.
	ConfigFileName = "linkres.cue"
	// EnvPrefix prefixes environment overrides, e.g. LINKRES_PLATFORM.
	EnvPrefix = "LINKRES"

	// FormatCUE renders configuration as CUE.
	FormatCUE = "cue"
	// FormatTOML renders configuration as TOML.
	FormatTOML = "toml"
	// FormatJSON renders configuration as indented JSON.
	FormatJSON = "json"
)

//go:embed linkres_schema.cue
var configSchema []byte

// ErrUnknownFormat is returned by Encode for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ConfigDir returns the linkres directory inside the user configuration
// directory (os.UserConfigDir).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// loadWithOptions performs option-driven config loading without caching.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("project_root", defaults.ProjectRoot)
	v.SetDefault("platform", string(defaults.Platform))
	v.SetDefault("source_exts", defaults.SourceExts)
	v.SetDefault("asset_exts", defaults.AssetExts)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path, err := locateConfigFile(opts)
	if err != nil {
		return nil, err
	}

	var file fileConfig
	if path != "" {
		f, err := parseConfigFile(path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'linkres config show' to see the default configuration").
				Wrap(err).
				BuildError()
		}
		file = *f
		if err := v.MergeConfigMap(file.scalars()); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ExtraNodeModules = file.ExtraNodeModules
	cfg.Redirects = file.Redirects
	cfg.source = path

	if err := cfg.Validate(); err != nil {
		id := issue.ConfigLoadFailedId
		if errors.Is(err, redirect.ErrInvalidRule) || errors.Is(err, redirect.ErrDuplicateRule) {
			id = issue.InvalidRedirectId
		}
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(id).
			WithSuggestion("Package names in extra_node_modules must be \"name\" or \"@scope/name\"").
			WithSuggestion("Override directories and project_root must be absolute paths").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// locateConfigFile returns the first existing config file in lookup order,
// or "" when there is none. An explicit path that does not exist is an error.
func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	local := filepath.Join(opts.WorkDir, ConfigFileName)
	if fileExists(local) {
		return local, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			// No user config directory (e.g. $HOME unset): defaults apply.
			return "", nil //nolint:nilerr // absence of a user dir is not an error
		}
		cfgDir = dir
	}
	if user := filepath.Join(cfgDir, ConfigFileName); fileExists(user) {
		return user, nil
	}
	return "", nil
}

// parseConfigFile reads path and decodes it against #Config.
func parseConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	result, err := cueutil.ParseAndDecode[fileConfig](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// scalars returns the settings present in the file that Viper layers over
// defaults.
func (f *fileConfig) scalars() map[string]any {
	m := make(map[string]any)
	if f.ProjectRoot != nil {
		m["project_root"] = *f.ProjectRoot
	}
	if f.Platform != nil {
		m["platform"] = *f.Platform
	}
	if f.SourceExts != nil {
		m["source_exts"] = f.SourceExts
	}
	if f.AssetExts != nil {
		m["asset_exts"] = f.AssetExts
	}
	if f.LogLevel != nil {
		m["log_level"] = *f.LogLevel
	}
	return m
}

// Encode renders cfg in the given format (cue, toml or json).
func Encode(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCUE:
		return cueutil.Encode(cfg)
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf).SetIndentTables(true)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("encoding config as TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding config as JSON: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownFormat, format, FormatCUE, FormatTOML, FormatJSON)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
