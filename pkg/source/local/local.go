// Package local discovers source files on disk for inclusion in a project.
//
// Discovery walks a root directory, honors the repository .gitignore when one
// exists, and matches files against doublestar glob patterns. Results are
// slash-separated paths relative to the root, sorted lexicographically so
// repeated runs over the same tree produce the same order.
package local

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are directories never worth descending into.
var skipDirs = map[string]struct{}{
	".git":         {},
	".build":       {},
	".swiftpm":     {},
	"DerivedData":  {},
	"Pods":         {},
	"Carthage":     {},
	"node_modules": {},
	"build":        {},
	"dist":         {},
	".idea":        {},
}

// Discover walks root and returns the relative paths of regular files matching
// at least one of the given doublestar patterns. Hidden files and directories
// are skipped, as is anything excluded by a .gitignore at the root.
func Discover(root string, patterns []string) ([]string, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	gi := loadGitignore(root)

	var results []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		for _, p := range patterns {
			ok, err := doublestar.Match(p, rel)
			if err != nil {
				return err
			}
			if ok {
				results = append(results, rel)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering sources under %s: %w", root, err)
	}

	sort.Strings(results)
	return results, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
