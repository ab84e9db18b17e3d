// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/linkres/pkg/types"
)

const (
	// ResolutionEmpty means the module was redirected to nothing and the
	// bundler should substitute an empty module.
	ResolutionEmpty ResolutionKind = iota + 1
	// ResolutionSourceFile is a single source file.
	ResolutionSourceFile
	// ResolutionAssetFiles is a set of asset variants (e.g. @2x, @3x images).
	ResolutionAssetFiles
)

type (
	// ResolutionKind discriminates Resolution values.
	ResolutionKind int

	// Resolution is the outcome handed back to the bundler. The zero value
	// is invalid; build values with EmptyResolution, SourceFile or
	// AssetFiles.
	Resolution struct {
		kind  ResolutionKind
		paths []types.FilesystemPath
	}
)

// String returns the kind name used in CLI output.
func (k ResolutionKind) String() string {
	switch k {
	case ResolutionEmpty:
		return "empty"
	case ResolutionSourceFile:
		return "sourceFile"
	case ResolutionAssetFiles:
		return "assetFiles"
	default:
		return fmt.Sprintf("ResolutionKind(%d)", int(k))
	}
}

// EmptyResolution returns the "do not resolve" outcome.
func EmptyResolution() Resolution { return Resolution{kind: ResolutionEmpty} }

// SourceFile returns a resolution to a single file.
func SourceFile(path types.FilesystemPath) Resolution {
	return Resolution{kind: ResolutionSourceFile, paths: []types.FilesystemPath{path}}
}

// AssetFiles returns a resolution to a set of asset files.
func AssetFiles(paths ...types.FilesystemPath) Resolution {
	return Resolution{kind: ResolutionAssetFiles, paths: slices.Clone(paths)}
}

// Kind returns the resolution kind.
func (r Resolution) Kind() ResolutionKind { return r.kind }

// IsEmpty reports whether r is the empty resolution.
func (r Resolution) IsEmpty() bool { return r.kind == ResolutionEmpty }

// FilePath returns the file of a source-file resolution and "" otherwise.
func (r Resolution) FilePath() types.FilesystemPath {
	if r.kind != ResolutionSourceFile {
		return ""
	}
	return r.paths[0]
}

// FilePaths returns a copy of every path carried by r.
func (r Resolution) FilePaths() []types.FilesystemPath { return slices.Clone(r.paths) }

// String renders r for logs and CLI output.
func (r Resolution) String() string {
	switch r.kind {
	case ResolutionEmpty:
		return "empty"
	case ResolutionSourceFile:
		return "sourceFile " + string(r.paths[0])
	case ResolutionAssetFiles:
		parts := make([]string, len(r.paths))
		for i, p := range r.paths {
			parts[i] = string(p)
		}
		return "assetFiles " + strings.Join(parts, ", ")
	default:
		return r.kind.String()
	}
}
