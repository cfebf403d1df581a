package query

import (
	"strings"

	"github.com/codecurator/semindex/internal/curatorerrors"
	"github.com/codecurator/semindex/internal/semindex"
)

// GroupResolver is the slice of internal/groups.Registry that the query
// engine needs for group-query expansion (spec.md §4.H) and QueryError
// "did you mean" suggestions. Defined here rather than imported to
// avoid a dependency cycle — internal/groups has no reason to know
// about the query engine.
type GroupResolver interface {
	Exists(name string) bool
	TermsFor(name string) []string
	Suggest(name string) string
}

// Engine evaluates spec.md §4.G's pattern algebra against a semantic
// index, the way internal/semindex/search.go itself is a pure
// options-in/scored-results-out pipeline — this just adds a boolean
// expression layer on top of it.
type Engine struct {
	Index  *semindex.Index
	Groups GroupResolver
}

func New(idx *semindex.Index, groups GroupResolver) *Engine {
	return &Engine{Index: idx, Groups: groups}
}

// Search parses raw per spec.md §4.G and evaluates it against Index,
// applying opts.Sort and opts.Max after combining every leaf's results.
func (e *Engine) Search(raw string, opts semindex.Options) ([]semindex.Result, error) {
	ast, err := parse(raw)
	if err != nil {
		return nil, curatorerrors.NewQueryError(raw, "malformed query", err)
	}

	set, err := evalNode(ast, e.Index, opts)
	if err != nil {
		return nil, curatorerrors.NewQueryError(raw, "bad regex", err)
	}

	results := make([]semindex.Result, 0, len(set))
	for _, r := range set {
		results = append(results, r)
	}
	semindex.SortResults(results, opts.Sort)
	if opts.Max > 0 && len(results) > opts.Max {
		results = results[:opts.Max]
	}
	return results, nil
}

// SearchGroup implements §4.H's "group queries expand to OR over the
// group's term list, then proceed identically": it resolves name via
// Groups and re-enters the same pattern-algebra evaluation as an OR of
// literal terms, so a group query gets the same filters/sort/max
// handling as any other query.
func (e *Engine) SearchGroup(name string, opts semindex.Options) ([]semindex.Result, error) {
	if e.Groups == nil || !e.Groups.Exists(name) {
		qerr := curatorerrors.NewQueryError(name, "unknown concept group", nil)
		if e.Groups != nil {
			if suggestion := e.Groups.Suggest(name); suggestion != "" {
				qerr = qerr.WithSuggestion(suggestion)
			}
		}
		return nil, qerr
	}

	terms := e.Groups.TermsFor(name)
	if len(terms) == 0 {
		return nil, nil
	}
	return e.Search(strings.Join(terms, "|"), opts)
}
