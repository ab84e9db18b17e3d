// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/linkres/internal/issue"
	"github.com/invowk/linkres/internal/testutil"
	"github.com/invowk/linkres/pkg/types"
)

// isolatedOptions returns LoadOptions whose working and user config
// directories are fresh temporary directories.
func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{WorkDir: t.TempDir(), ConfigDirPath: t.TempDir()}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	testutil.MustWriteFile(t, path, content)
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), isolatedOptions(t))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	want := DefaultConfig()
	if cfg.Platform != want.Platform || cfg.LogLevel != want.LogLevel || cfg.ProjectRoot != "" {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if !slices.Equal(cfg.SourceExts, want.SourceExts) || !slices.Equal(cfg.AssetExts, want.AssetExts) {
		t.Errorf("extensions = %v / %v, want %v / %v", cfg.SourceExts, cfg.AssetExts, want.SourceExts, want.AssetExts)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	shared := filepath.Join(root, "packages", "shared-lib")
	debounce := filepath.Join(root, "vendor", "lodash.debounce")
	path := writeConfig(t, t.TempDir(), fmt.Sprintf(`
project_root: %q
platform: "android"
source_exts: ["ts", "tsx", "js"]
log_level: "debug"
extra_node_modules: {
	"shared-lib": %q
	"lodash.debounce": %q
}
redirects: [
	{from: "react-native", to: "react-native-web"},
	{from: "react-native-reanimated", empty: true},
]
`, root, shared, debounce))

	opts := isolatedOptions(t)
	opts.ConfigFilePath = path
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
	if cfg.ProjectRoot != root || cfg.Platform != types.PlatformAndroid || cfg.LogLevel != "debug" {
		t.Errorf("scalars = %q %q %q", cfg.ProjectRoot, cfg.Platform, cfg.LogLevel)
	}
	if !slices.Equal(cfg.SourceExts, []string{"ts", "tsx", "js"}) {
		t.Errorf("SourceExts = %v", cfg.SourceExts)
	}
	if !slices.Equal(cfg.AssetExts, DefaultConfig().AssetExts) {
		t.Errorf("AssetExts = %v, want defaults", cfg.AssetExts)
	}

	overrides := cfg.ExtraNodeModulePaths()
	if overrides["shared-lib"] != types.FilesystemPath(shared) {
		t.Errorf("extra_node_modules[shared-lib] = %q, want %q", overrides["shared-lib"], shared)
	}
	// Dotted names are map keys, not nested paths.
	if overrides["lodash.debounce"] != types.FilesystemPath(debounce) {
		t.Errorf("extra_node_modules[lodash.debounce] = %q, want %q", overrides["lodash.debounce"], debounce)
	}

	table, err := cfg.RedirectTable()
	if err != nil {
		t.Fatalf("RedirectTable() returned error: %v", err)
	}
	if got := table.Lookup("react-native").Specifier(); got != "react-native-web" {
		t.Errorf("redirect react-native = %q", got)
	}
	if !table.Lookup("react-native-reanimated").IsEmpty() {
		t.Error("react-native-reanimated should redirect to empty")
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	userPath := writeConfig(t, opts.ConfigDirPath, `platform: "web"`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Source() != userPath || cfg.Platform != types.PlatformWeb {
		t.Errorf("user config: Source() = %q, Platform = %q", cfg.Source(), cfg.Platform)
	}

	localPath := writeConfig(t, opts.WorkDir, `platform: "macos"`)
	cfg, err = NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Source() != localPath || cfg.Platform != types.PlatformMacOS {
		t.Errorf("local config should win: Source() = %q, Platform = %q", cfg.Source(), cfg.Platform)
	}
}

func TestLoad_DefaultLocations(t *testing.T) {
	// Not parallel: changes the working directory and the user config directory.
	defer testutil.SetConfigHome(t, t.TempDir())()
	defer testutil.MustChdir(t, t.TempDir())()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	userPath := writeConfig(t, dir, `platform: "web"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Source() != userPath || cfg.Platform != types.PlatformWeb {
		t.Errorf("user config: Source() = %q, Platform = %q", cfg.Source(), cfg.Platform)
	}

	writeConfig(t, ".", `platform: "android"`)
	cfg, err = NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Source() != ConfigFileName || cfg.Platform != types.PlatformAndroid {
		t.Errorf("working directory config should win: Source() = %q, Platform = %q", cfg.Source(), cfg.Platform)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts := isolatedOptions(t)
	writeConfig(t, opts.WorkDir, `platform: "web"
log_level: "warn"`)
	t.Setenv("LINKRES_PLATFORM", "android")
	t.Setenv("LINKRES_SOURCE_EXTS", "mjs,js")

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Platform != types.PlatformAndroid {
		t.Errorf("Platform = %q, want env override android", cfg.Platform)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn from file", cfg.LogLevel)
	}
	if !slices.Equal(cfg.SourceExts, []string{"mjs", "js"}) {
		t.Errorf("SourceExts = %v, want [mjs js]", cfg.SourceExts)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "pkg")

	tests := []struct {
		name      string
		content   string
		want      string
		wantIssue issue.Id
	}{
		{"syntax error", `platform: "ios`, ConfigFileName, issue.ConfigLoadFailedId},
		{"unknown field", `bundler: "metro"`, "bundler", issue.ConfigLoadFailedId},
		{"bad log level", `log_level: "verbose"`, "log_level", issue.ConfigLoadFailedId},
		{"empty override dir", `extra_node_modules: {"x": ""}`, "extra_node_modules", issue.ConfigLoadFailedId},
		{"relative override dir", `extra_node_modules: {"x": "packages/x"}`, "must be absolute", issue.ConfigLoadFailedId},
		{"override key with subpath", fmt.Sprintf(`extra_node_modules: {"lodash/fp": %q}`, abs), "lodash/fp", issue.ConfigLoadFailedId},
		{"redirect without target", `redirects: [{from: "x"}]`, "either to or empty must be set", issue.InvalidRedirectId},
		{"duplicate redirect", `redirects: [{from: "x", to: "y"}, {from: "x", empty: true}]`, "duplicate redirect rule", issue.InvalidRedirectId},
		{"relative project root", `project_root: "repo"`, "project_root", issue.ConfigLoadFailedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := isolatedOptions(t)
			opts.ConfigFilePath = writeConfig(t, t.TempDir(), tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() returned nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
			ae, ok := issue.AsActionable(err)
			if !ok || ae.IssueId != tt.wantIssue {
				t.Errorf("error should be an ActionableError linked to issue %d, got %#v", tt.wantIssue, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), "nope.cue")

	_, err := NewProvider().Load(context.Background(), opts)
	ae, ok := issue.AsActionable(err)
	if !ok {
		t.Fatalf("error should be an ActionableError, got %v", err)
	}
	if ae.Resource != opts.ConfigFilePath || !ae.HasSuggestions() {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, isolatedOptions(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ExtraNodeModules = map[string]string{"@scope/name": "/repo/packages/scoped"}
	cfg.Redirects = nil

	tests := []struct {
		format   string
		contains []string
	}{
		{FormatCUE, []string{`platform:`, `"ios"`, `"@scope/name":`, `"/repo/packages/scoped"`}},
		{FormatTOML, []string{`platform = 'ios'`, `[extra_node_modules]`, `'@scope/name' = '/repo/packages/scoped'`}},
		{FormatJSON, []string{`"platform": "ios"`, `"@scope/name": "/repo/packages/scoped"`}},
		{"TOML", []string{`log_level = 'info'`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			out, err := Encode(cfg, tt.format)
			if err != nil {
				t.Fatalf("Encode(%s) returned error: %v", tt.format, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(out), want) {
					t.Errorf("Encode(%s) missing %q:\n%s", tt.format, want, out)
				}
			}
		})
	}

	if _, err := Encode(cfg, "yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(yaml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestEncode_CUERoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Platform = types.PlatformWeb
	cfg.ExtraNodeModules = map[string]string{"shared-lib": filepath.Join(root, "shared-lib")}

	out, err := Encode(cfg, FormatCUE)
	if err != nil {
		t.Fatalf("Encode() returned error: %v", err)
	}

	opts := isolatedOptions(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), ConfigFileName)
	testutil.MustWriteFile(t, opts.ConfigFilePath, string(out))

	loaded, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("re-loading encoded config failed: %v\n%s", err, out)
	}
	if loaded.Platform != types.PlatformWeb || loaded.ExtraNodeModules["shared-lib"] != cfg.ExtraNodeModules["shared-lib"] {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestConfig_Level(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	if cfg.Level().String() != "debug" {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	cfg.LogLevel = "nonsense"
	if cfg.Level().String() != "info" {
		t.Errorf("Level() with invalid value = %v, want info", cfg.Level())
	}
}
