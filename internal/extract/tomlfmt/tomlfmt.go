// Package tomlfmt extracts Definitions from TOML documents (.toml),
// per spec.md §4.E: table headers, key-value pairs, with Cargo.toml
// dependencies indexed as import-kind entries.
package tomlfmt

import (
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

// Extractor implements extract.Extractor for TOML documents, using
// the teacher's direct dependency github.com/pelletier/go-toml/v2.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string             { return "tomlfmt" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".toml")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		return extract.Result{}, err
	}

	var res extract.Result
	lineOf := lineIndex(content)
	walk(doc, "", path, content, lineOf, &res)

	if strings.EqualFold(filepath.Base(path), "Cargo.toml") {
		applyCargoDependencies(doc, path, content, lineOf, &res)
	}
	return res, nil
}

func walk(node any, keyPath, path string, content []byte, lineOf func(string) int, res *extract.Result) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			full := k
			kind := curatortypes.KindVariable
			if _, isTable := val.(map[string]any); isTable {
				kind = curatortypes.KindClass // table header
			}
			if keyPath != "" {
				full = keyPath + "." + k
			}
			line := lineOf(k)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: full, Kind: kind,
				Location: curatortypes.Location{File: path, Line: line},
				Context:  contextAt(content, line), Language: "toml",
			})
			walk(val, full, path, content, lineOf, res)
		}
	case []any:
		for _, item := range v {
			walk(item, keyPath, path, content, lineOf, res)
		}
	case string:
		if v == "" {
			return
		}
		line := lineOf(v)
		res.Definitions = append(res.Definitions, curatortypes.Definition{
			Term: v, Kind: curatortypes.KindString,
			Location: curatortypes.Location{File: path, Line: line},
			Context:  contextAt(content, line), Language: "toml",
		})
	}
}

func applyCargoDependencies(doc map[string]any, path string, content []byte, lineOf func(string) int, res *extract.Result) {
	for _, field := range []string{"dependencies", "dev-dependencies", "build-dependencies"} {
		deps, ok := doc[field].(map[string]any)
		if !ok {
			continue
		}
		for name := range deps {
			line := lineOf(name)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: name, Kind: curatortypes.KindImport,
				Location: curatortypes.Location{File: path, Line: line},
				Context:  contextAt(content, line), Language: "toml",
				Attributes: map[string]string{"field": field},
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: name, RefKind: curatortypes.RefImport,
				From: curatortypes.Location{File: path, Line: line}, Context: contextAt(content, line),
			})
		}
	}
}

func lineIndex(content []byte) func(token string) int {
	lines := strings.Split(string(content), "\n")
	return func(token string) int {
		for i, l := range lines {
			if strings.Contains(l, token) {
				return i + 1
			}
		}
		return 1
	}
}

func contextAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
