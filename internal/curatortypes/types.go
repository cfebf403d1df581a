// Package curatortypes holds the data model shared by every component of
// the semantic index: definitions, cross-references and their shared
// location type.
package curatortypes

import "strings"

// Kind identifies what a Definition represents.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindVariable Kind = "variable"
	KindConstant Kind = "constant"
	KindString   Kind = "string"
	KindComment  Kind = "comment"
	KindImport   Kind = "import"
	KindFile     Kind = "file"
)

// RefKind identifies the nature of a CrossReference.
type RefKind string

const (
	RefCall           RefKind = "call"
	RefImport         RefKind = "import"
	RefExtends        RefKind = "extends"
	RefImplements     RefKind = "implements"
	RefInstantiation  RefKind = "instantiation"
	RefTypeReference  RefKind = "type_reference"
)

// Location anchors a definition or reference to an exact place in a file.
// File is always a project-relative path using '/' separators (invariant 3).
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`   // 1-based
	Column int    `json:"column"` // 0-based
}

// NormalizeFile rewrites File to use '/' separators, matching invariant 3.
func (l *Location) NormalizeFile() {
	l.File = strings.ReplaceAll(l.File, "\\", "/")
}

// Definition is the stored form of spec.md's SemanticInfo.
type Definition struct {
	Term        string            `json:"term"`
	Kind        Kind              `json:"kind"`
	Location    Location          `json:"location"`
	Context     string            `json:"context"`
	Surrounding []string          `json:"surrounding"`
	Related     []string          `json:"related"`
	Language    string            `json:"language"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Key returns the dedup key spec.md §3 invariant 5 and §4.F's
// deduplication rule both use: (term, line).
func (d *Definition) Key() DefKey {
	return DefKey{Term: d.Term, Line: d.Location.Line}
}

// DefKey is the (term, line) dedup key used throughout the index.
type DefKey struct {
	Term string
	Line int
}

// CrossReference is a directed edge from a use site to a term.
type CrossReference struct {
	TargetTerm string   `json:"target_term"`
	RefKind    RefKind  `json:"ref_kind"`
	From       Location `json:"from"`
	Context    string   `json:"context"`
}

// NormalizeTerm returns the case-folded copy used for all search-side
// matching. Stored Term values are never mutated (invariant 4).
func NormalizeTerm(term string) string {
	return strings.ToLower(term)
}
