// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestSetConfigHome(t *testing.T) {
	key := "XDG_CONFIG_HOME"
	switch runtime.GOOS {
	case "windows":
		key = "APPDATA"
	case "darwin":
		key = "HOME"
	}
	original, hadOriginal := os.LookupEnv(key)

	tmpDir := t.TempDir()
	cleanup := SetConfigHome(t, tmpDir)

	got, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("UserConfigDir() returned error: %v", err)
	}
	if !strings.HasPrefix(got, tmpDir) {
		t.Errorf("UserConfigDir() = %q, want a path under %q", got, tmpDir)
	}

	cleanup()

	restored, hasRestored := os.LookupEnv(key)
	if restored != original || hasRestored != hadOriginal {
		t.Errorf("after cleanup %s = %q (set=%v), want %q (set=%v)", key, restored, hasRestored, original, hadOriginal)
	}
}

func TestMustSymlinkAndRealpath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on Windows")
	}
	t.Parallel()

	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real")
	link := filepath.Join(tmpDir, "nested", "link")
	MustMkdirAll(t, target, 0o755)
	MustSymlink(t, target, link)
	MustWriteFile(t, filepath.Join(target, "index.js"), "module.exports = 1;\n")

	if got, want := MustRealpath(t, filepath.Join(link, "index.js")), MustRealpath(t, filepath.Join(target, "index.js")); got != want {
		t.Errorf("MustRealpath() = %q, want %q", got, want)
	}
}
