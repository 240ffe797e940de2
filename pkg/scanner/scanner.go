// Package scanner walks a source tree and produces the deterministic file
// list consumed by the static analyzers.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Options control which files a scan includes.
type Options struct {
	// Extensions is the set of file extensions to include (with leading dot).
	// Empty includes every regular file.
	Extensions []string

	// IgnoreDirs is the set of directory names pruned from the walk.
	// The exclusion set is configuration, not behavior.
	IgnoreDirs []string
}

// DefaultIgnoreDirs is the conventional exclusion set for Python checkouts:
// VCS internals, IDE state, virtualenvs, caches, and build output.
func DefaultIgnoreDirs() []string {
	return []string{
		".git", ".idea", ".vscode", "__pycache__", "venv", "env",
		"node_modules", "build", "dist", "migrations", ".pytest_cache", "htmlcov",
	}
}

// File is one scanned source file.
type File struct {
	// RelPath is the path relative to the scan root, always forward-slashed.
	RelPath string

	// AbsPath is the filesystem path used for reads.
	AbsPath string

	// Size is the file size in bytes at scan time.
	Size int64
}

// Tree is the result of a scan: the root and every matching file under it,
// sorted by RelPath. The sort fixes node insertion order for all downstream
// first-encountered tie-breaks.
type Tree struct {
	Root  string
	Files []File
}

// Scan walks root and collects matching files. Unreadable subtrees are
// skipped, never fatal; only a root that cannot be walked at all returns an
// error.
func Scan(root string, opts Options) (*Tree, error) {
	ignore := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, dir := range opts.IgnoreDirs {
		ignore[dir] = struct{}{}
	}

	tree := &Tree{Root: root}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			// Per-entry failures (permissions, races) skip the entry.
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			if _, skip := ignore[entry.Name()]; skip && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if !matchesExtension(entry.Name(), opts.Extensions) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}

		tree.Files = append(tree.Files, File{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Size:    info.Size(),
		})

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", root, walkErr)
	}

	sort.Slice(tree.Files, func(i, j int) bool {
		return tree.Files[i].RelPath < tree.Files[j].RelPath
	})

	return tree, nil
}

func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	return slices.Contains(extensions, strings.ToLower(filepath.Ext(name)))
}
