// SPDX-License-Identifier: MPL-2.0

package pkgroot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/linkres/pkg/types"
)

// MaxSymlinkHops bounds symlink chasing in Realpath, matching the Linux
// MAXSYMLINKS limit.
const MaxSymlinkHops = 40

// ErrTooManySymlinks is returned by Realpath when resolving a path requires
// more than MaxSymlinkHops symlink traversals (usually a link cycle).
var ErrTooManySymlinks = errors.New("too many levels of symbolic links")

// Realpath resolves every symlink in path, component by component, and
// returns the cleaned physical path. ".." is applied to the physical path
// reached so far, as POSIX realpath does, not lexically. Relative link
// targets are interpreted against the directory containing the link.
func Realpath(fsys FS, path types.FilesystemPath) (types.FilesystemPath, error) {
	resolved, pending := splitRoot(filepath.FromSlash(string(path)))

	hops := 0
	for len(pending) > 0 {
		comp := pending[0]
		pending = pending[1:]

		switch comp {
		case "", ".":
			continue
		case "..":
			resolved = parentOf(resolved)
			continue
		}

		next := joinComponent(resolved, comp)
		target, isLink, err := fsys.ReadSymlinkTarget(types.FilesystemPath(next))
		if err != nil {
			return "", err
		}
		if !isLink {
			resolved = next
			continue
		}

		hops++
		if hops > MaxSymlinkHops {
			return "", fmt.Errorf("resolving %s: %w", path, ErrTooManySymlinks)
		}

		target = filepath.FromSlash(target)
		if filepath.IsAbs(target) || strings.HasPrefix(target, string(filepath.Separator)) {
			var rest []string
			resolved, rest = splitRoot(target)
			pending = append(rest, pending...)
		} else {
			pending = append(splitComponents(target), pending...)
		}
	}

	if resolved == "" {
		return ".", nil
	}
	return types.FilesystemPath(resolved), nil
}

// splitRoot separates a path into its root ("/", `C:\`, or "" for
// relative paths) and its remaining components.
func splitRoot(p string) (string, []string) {
	volume := filepath.VolumeName(p)
	rest := p[len(volume):]
	root := volume
	if strings.HasPrefix(rest, string(filepath.Separator)) {
		root += string(filepath.Separator)
		rest = rest[1:]
	}
	return root, splitComponents(rest)
}

func splitComponents(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, string(filepath.Separator))
}

func joinComponent(dir, comp string) string {
	if dir == "" {
		return comp
	}
	return filepath.Join(dir, comp)
}

func parentOf(dir string) string {
	if dir == "" {
		return ".."
	}
	return filepath.Dir(dir)
}
