// Package jsonfmt extracts Definitions from JSON documents
// (.json .jsonc .json5), per spec.md §4.E: every key as a
// variable-kind entry, scalar string values as string-kind entries,
// with special-casing for package.json (scripts -> function-kind,
// dependencies -> import-kind) and tsconfig.json (path mappings).
package jsonfmt

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

// Extractor implements extract.Extractor for JSON documents. encoding/
// json is used directly: stdlib already gives a full decode tree
// (map[string]any / []any), and no pack repo reaches for a third-party
// JSON library for plain decode (see DESIGN.md).
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string { return "jsonfmt" }

func (Extractor) Matches(path string) bool {
	return extract.ExtMatcher(".json", ".jsonc", ".json5")(path)
}

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	stripped := stripJSONCComments(content)
	var doc any
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return extract.Result{}, err
	}

	var res extract.Result
	lineOf := lineIndex(content)
	walk(doc, "", path, content, lineOf, &res)

	base := strings.ToLower(filepath.Base(path))
	switch base {
	case "package.json":
		applyPackageJSON(doc, path, content, lineOf, &res)
	case "tsconfig.json":
		applyTSConfig(doc, path, content, lineOf, &res)
	}
	return res, nil
}

// walk emits every key as a KindVariable entry (object keys) and every
// scalar string value as a KindString entry, per spec.md's universal
// "unquoted string, skip empty strings" rule.
func walk(node any, keyPath, path string, content []byte, lineOf func(key string) int, res *extract.Result) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			full := k
			if keyPath != "" {
				full = keyPath + "." + k
			}
			line := lineOf(k)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: full, Kind: curatortypes.KindVariable,
				Location: curatortypes.Location{File: path, Line: line},
				Context:  contextAt(content, line), Language: "json",
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
			Context:  contextAt(content, line), Language: "json",
		})
	}
}

// applyPackageJSON adds the scripts-as-functions and
// dependencies-as-imports special case spec.md §4.E names explicitly.
func applyPackageJSON(doc any, path string, content []byte, lineOf func(string) int, res *extract.Result) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}
	if scripts, ok := obj["scripts"].(map[string]any); ok {
		for name := range scripts {
			line := lineOf(name)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: name, Kind: curatortypes.KindFunction,
				Location: curatortypes.Location{File: path, Line: line},
				Context:  contextAt(content, line), Language: "json",
				Attributes: map[string]string{"construct": "npm_script"},
			})
		}
	}
	for _, depField := range []string{"dependencies", "devDependencies", "peerDependencies"} {
		deps, ok := obj[depField].(map[string]any)
		if !ok {
			continue
		}
		for name, version := range deps {
			line := lineOf(name)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: name, Kind: curatortypes.KindImport,
				Location: curatortypes.Location{File: path, Line: line},
				Context:  contextAt(content, line), Language: "json",
				Attributes: map[string]string{"version": toString(version), "field": depField},
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: name, RefKind: curatortypes.RefImport,
				From: curatortypes.Location{File: path, Line: line}, Context: contextAt(content, line),
			})
		}
	}
}

// applyTSConfig adds tsconfig.json's compilerOptions.paths mappings as
// import references from the alias to each resolved path.
func applyTSConfig(doc any, path string, content []byte, lineOf func(string) int, res *extract.Result) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return
	}
	compilerOptions, ok := obj["compilerOptions"].(map[string]any)
	if !ok {
		return
	}
	paths, ok := compilerOptions["paths"].(map[string]any)
	if !ok {
		return
	}
	for alias, targets := range paths {
		line := lineOf(alias)
		list, _ := targets.([]any)
		for _, t := range list {
			target, _ := t.(string)
			if target == "" {
				continue
			}
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: target, RefKind: curatortypes.RefImport,
				From: curatortypes.Location{File: path, Line: line}, Context: alias + " -> " + target,
			})
		}
	}
}

var jsoncCommentRe = regexp.MustCompile(`(?m)//[^\n]*$|/\*[\s\S]*?\*/`)

func stripJSONCComments(content []byte) []byte {
	return jsoncCommentRe.ReplaceAll(content, nil)
}

// lineIndex returns a function resolving the first line on which a
// given bare token (key or string value) appears, for approximate
// Location reporting — decoding into map[string]any loses byte
// offsets, so this recovers them by scanning the raw text. Not exact
// under duplicate keys/values, but JSON rarely repeats a key within one
// object and this keeps the extractor to plain encoding/json.
func lineIndex(content []byte) func(token string) int {
	lines := strings.Split(string(content), "\n")
	return func(token string) int {
		needle := strconv.Quote(token)
		for i, l := range lines {
			if strings.Contains(l, needle) {
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

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
