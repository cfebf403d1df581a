// Package extract implements spec.md §4.D's extractor registry: an
// ordered list of pure (content, path) -> (definitions, references)
// functions, dispatched by the first predicate that matches a file.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/codecurator/semindex/internal/curatortypes"
)

// Result is one extractor's output for a single file.
type Result struct {
	Definitions []curatortypes.Definition
	References  []curatortypes.CrossReference
}

// Extractor is the universal contract of spec.md §4.E: a pure function
// of a file's content and path. Implementations must not read other
// files, and every location/reference they emit must belong to path.
type Extractor interface {
	// Name identifies the extractor for ExtractError's Extractor field.
	Name() string
	// Matches reports whether this extractor claims path. Matches runs
	// in registry order; the first match wins.
	Matches(path string) bool
	// Extract parses content (the file at path) into definitions and
	// references.
	Extract(path string, content []byte) (Result, error)
}

// Registry is an ordered list of Extractors. Framework-aware
// extractors (package.json, Cargo.toml, single-file-component formats)
// are registered before their general-purpose counterparts so they
// claim the file first.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds the default registry in spec.md §4.D's priority
// order: framework-aware JSON/TOML special cases, then the tree-sitter
// language extractors, then the remaining textual/config formats.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor to the end of the dispatch order.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// For returns the first extractor whose predicate matches path, or nil
// if no extractor claims it (the file is ignored per spec.md §4.D).
func (r *Registry) For(path string) Extractor {
	for _, e := range r.extractors {
		if e.Matches(path) {
			return e
		}
	}
	return nil
}

// ContentMatcher is implemented by extractors that can also claim a
// file by sniffing its content — e.g. a shebang line — when the path
// alone doesn't identify the language.
type ContentMatcher interface {
	MatchesContent(content []byte) bool
}

// ForContent returns the first extractor claiming path by extension, the
// same as For. If none claims it, it falls back to each extractor's
// ContentMatcher (if implemented) against content, per spec.md:115's
// shell-detection rule: "`.sh .bash .zsh .fish` and shebang match" — an
// extensionless script with a recognized shebang must still be routed
// to its extractor rather than silently dropped.
func (r *Registry) ForContent(path string, content []byte) Extractor {
	if e := r.For(path); e != nil {
		return e
	}
	for _, e := range r.extractors {
		if cm, ok := e.(ContentMatcher); ok && cm.MatchesContent(content) {
			return e
		}
	}
	return nil
}

// ExtMatcher builds a Matches predicate for a fixed set of
// case-insensitive extensions, e.g. ".go" or ".ts", ".tsx".
func ExtMatcher(exts ...string) func(string) bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return func(path string) bool {
		return set[strings.ToLower(filepath.Ext(path))]
	}
}

// BaseMatcher builds a Matches predicate for an exact, case-insensitive
// base filename, e.g. "package.json" or "Cargo.toml".
func BaseMatcher(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return func(path string) bool {
		return set[strings.ToLower(filepath.Base(path))]
	}
}
