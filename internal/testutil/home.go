// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetConfigHome points os.UserConfigDir() at dir for the duration of a test
// and returns a cleanup function restoring the previous environment.
//
// Platform handling:
//   - Windows: sets APPDATA
//   - macOS: sets HOME (config lives in $HOME/Library/Application Support)
//   - Linux/others: sets XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
