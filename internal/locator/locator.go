// Package locator discovers candidate source files for the ownership
// fallback path.
package locator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"__pycache__":  {},
	".venv":        {},
}

// SourceExtensions are the file extensions considered source code for
// ownership purposes.
var SourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
	".java": {}, ".cpp": {}, ".cc": {}, ".cxx": {}, ".c": {},
	".cs": {}, ".go": {}, ".rb": {}, ".php": {},
}

// IsSourceFile reports whether the path has a recognized source extension.
func IsSourceFile(path string) bool {
	_, ok := SourceExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Options bounds a source-file scan.
type Options struct {
	// MaxFiles caps how many files are returned. Zero means no cap.
	MaxFiles int
	// MinSize and MaxSize filter out binary-ish and oversized files.
	// Zero values disable the respective bound.
	MinSize int64
	MaxSize int64
}

// SourceFiles walks root and returns repository-relative paths of source
// files, sorted for determinism, bounded by opts. Unreadable entries are
// skipped rather than failing the scan.
func SourceFiles(root string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSourceFile(path) {
			return nil
		}

		if opts.MinSize > 0 || opts.MaxSize > 0 {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if opts.MinSize > 0 && info.Size() < opts.MinSize {
				return nil
			}
			if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		files = files[:opts.MaxFiles]
	}
	return files, nil
}
