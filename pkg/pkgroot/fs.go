// SPDX-License-Identifier: MPL-2.0

package pkgroot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/invowk/linkres/pkg/fspath"
	"github.com/invowk/linkres/pkg/types"
)

type (
	// FS is the filesystem capability used by Finder and Realpath.
	FS interface {
		// DirectoryExists reports whether path names a directory, following
		// symlinks. A missing path is (false, nil); other failures are errors.
		DirectoryExists(path types.FilesystemPath) (bool, error)

		// ReadSymlinkTarget returns the raw target of path when path itself is a
		// symlink. For any other existing entry isLink is false.
		ReadSymlinkTarget(path types.FilesystemPath) (target string, isLink bool, err error)

		// ListAncestors returns dir followed by each of its parents up to the
		// filesystem root.
		ListAncestors(dir types.FilesystemPath) []types.FilesystemPath
	}

	// OSFS implements FS on top of an afero filesystem. Symlink support
	// requires the afero filesystem to implement afero.Symlinker, which
	// afero.OsFs does.
	OSFS struct {
		fs afero.Fs
	}
)

// NewOSFS returns an FS backed by the host filesystem.
func NewOSFS() *OSFS {
	return &OSFS{fs: afero.NewOsFs()}
}

// NewAferoFS returns an FS backed by an arbitrary afero filesystem, such as
// afero.NewReadOnlyFs(afero.NewOsFs()).
func NewAferoFS(fsys afero.Fs) *OSFS {
	return &OSFS{fs: fsys}
}

// Afero returns the underlying afero filesystem.
func (o *OSFS) Afero() afero.Fs { return o.fs }

// DirectoryExists implements FS.
func (o *OSFS) DirectoryExists(path types.FilesystemPath) (bool, error) {
	info, err := o.fs.Stat(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// ReadSymlinkTarget implements FS.
func (o *OSFS) ReadSymlinkTarget(path types.FilesystemPath) (string, bool, error) {
	linker, ok := o.fs.(afero.Symlinker)
	if !ok {
		if _, err := o.fs.Stat(string(path)); err != nil {
			return "", false, fmt.Errorf("stat %s: %w", path, err)
		}
		return "", false, nil
	}

	info, _, err := linker.LstatIfPossible(string(path))
	if err != nil {
		return "", false, fmt.Errorf("lstat %s: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return "", false, nil
	}

	target, err := linker.ReadlinkIfPossible(string(path))
	if err != nil {
		return "", false, fmt.Errorf("readlink %s: %w", path, err)
	}
	return target, true, nil
}

// ListAncestors implements FS.
func (o *OSFS) ListAncestors(dir types.FilesystemPath) []types.FilesystemPath {
	return fspath.Ancestors(dir)
}
