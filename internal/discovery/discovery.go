// Package discovery walks a project root once per update and produces a
// deterministic, priority-first list of relative paths, applying the
// default exclusions merged with project configuration (spec.md §4.A).
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codecurator/semindex/internal/curatorerrors"
)

// DefaultExclusions is the minimum default exclusion set from spec.md §6.
var DefaultExclusions = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/.curator/**",
	"**/.venv/**",
	"**/__pycache__/**",
	"**/target/**",
	"**/*.lock",
	"**/*.exe",
	"**/*.dll",
	"**/*.so",
	"**/*.dylib",
	"**/*.png",
	"**/*.jpg",
	"**/*.jpeg",
	"**/*.gif",
	"**/*.pdf",
	"**/*.zip",
}

// Options configures a Walk.
type Options struct {
	Root            string
	PriorityPattern string   // optional; matching paths sort first
	Include         []string // optional; when non-empty, acts as an allow-list
	Exclude         []string // merged with DefaultExclusions
}

// Walk discovers every file under opts.Root that the include/exclude
// predicate accepts, returning project-relative, '/'-separated paths.
// Traversal never descends into an excluded directory.
func Walk(opts Options) ([]string, error) {
	exclusions := append(append([]string{}, DefaultExclusions...), opts.Exclude...)

	var matched []string
	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A single unreadable entry does not abort discovery; skip it.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == opts.Root {
			return nil
		}
		rel, relErr := filepath.Rel(opts.Root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAny(exclusions, rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if !accept(rel, opts.Include, exclusions) {
			return nil
		}
		matched = append(matched, rel)
		return nil
	})
	if err != nil {
		return nil, curatorerrors.NewDiscoveryError(opts.Root, err)
	}

	sortPriorityFirst(matched, opts.PriorityPattern)
	return matched, nil
}

// accept implements: include iff (no inclusion list, or matches an
// inclusion) and matches no exclusion.
func accept(rel string, include, exclude []string) bool {
	if len(include) > 0 && !matchesAny(include, rel, false) {
		return false
	}
	return !matchesAny(exclude, rel, false)
}

// matchesAny reports whether rel matches any glob in patterns. When
// forDir is true, a pattern is also tried against rel+"/" so a plain
// directory-name exclusion (e.g. "node_modules") still prunes descent.
func matchesAny(patterns []string, rel string, forDir bool) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			// Anchorless single-segment pattern: match at any depth.
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}

func sortPriorityFirst(paths []string, priorityPattern string) {
	if priorityPattern == "" {
		sort.Strings(paths)
		return
	}
	sort.Slice(paths, func(i, j int) bool {
		pi, _ := doublestar.Match(priorityPattern, paths[i])
		pj, _ := doublestar.Match(priorityPattern, paths[j])
		if pi != pj {
			return pi
		}
		return paths[i] < paths[j]
	})
}
