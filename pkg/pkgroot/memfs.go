// SPDX-License-Identifier: MPL-2.0

package pkgroot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/types"
)

// MemFS is an in-memory FS fixture. Directories and files live in an
// afero.MemMapFs; symlinks, which MemMapFs does not model, live in a side
// table keyed by the cleaned link path. Paths under a denied prefix fail
// with fs.ErrPermission.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu     sync.RWMutex
	fs     afero.Fs
	links  map[string]string
	denied []string
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{
		fs:    afero.NewMemMapFs(),
		links: make(map[string]string),
	}
}

// Afero exposes the backing afero filesystem so other components under test
// (such as a downstream file resolver) can share the same fixture. Paths
// reached through it do not follow MemFS symlinks.
func (m *MemFS) Afero() afero.Fs { return m.fs }

// MkdirAll creates a directory and its parents.
func (m *MemFS) MkdirAll(path string) error {
	if err := m.fs.MkdirAll(filepath.Clean(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// WriteFile creates a file, creating parent directories as needed.
func (m *MemFS) WriteFile(path string, data []byte) error {
	if err := m.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	if err := afero.WriteFile(m.fs, filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Symlink records link as a symlink pointing at target. The target is stored
// verbatim, so relative targets resolve against the link's directory. The
// link's parent directory is created if missing; the target need not exist.
func (m *MemFS) Symlink(target, link string) error {
	if err := m.MkdirAll(filepath.Dir(link)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[filepath.Clean(link)] = target
	return nil
}

// Deny makes every path at or below prefix fail with fs.ErrPermission.
func (m *MemFS) Deny(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied = append(m.denied, filepath.Clean(prefix))
}

// DirectoryExists implements FS.
func (m *MemFS) DirectoryExists(path types.FilesystemPath) (bool, error) {
	resolved, err := Realpath(m, path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.checkAccess(string(resolved)); err != nil {
		return false, err
	}

	info, err := m.fs.Stat(string(resolved))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// ReadSymlinkTarget implements FS.
func (m *MemFS) ReadSymlinkTarget(path types.FilesystemPath) (string, bool, error) {
	p := filepath.Clean(string(path))
	if err := m.checkAccess(p); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	target, isLink := m.links[p]
	m.mu.RUnlock()
	if isLink {
		return target, true, nil
	}

	if _, err := m.fs.Stat(p); err != nil {
		return "", false, &os.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
	}
	return "", false, nil
}

// ListAncestors implements FS.
func (m *MemFS) ListAncestors(dir types.FilesystemPath) []types.FilesystemPath {
	return fspath.Ancestors(dir)
}

func (m *MemFS) checkAccess(p string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, prefix := range m.denied {
		if p == prefix || strings.HasPrefix(p, prefix+string(filepath.Separator)) {
			return &os.PathError{Op: "open", Path: p, Err: fs.ErrPermission}
		}
	}
	return nil
}
