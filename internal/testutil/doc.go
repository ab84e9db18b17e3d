// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that fail the test on
// setup errors instead of returning them, reducing boilerplate when building
// on-disk workspace fixtures.
//
// Common helpers include environment management (MustSetenv, SetConfigHome),
// directory and file creation (MustChdir, MustMkdirAll, MustWriteFile) and
// symlink fixtures (MustSymlink, MustRealpath).
package testutil
