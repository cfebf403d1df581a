// Package tsquery is the shared tree-sitter scaffolding the four
// grammar-backed extractors (golang, jsts, python, rust) build on: one
// parser/query pair per language, a single match-then-dispatch walk,
// and the capture-name bookkeeping the teacher's TreeSitterParser uses
// (a match's ".name" captures resolve a construct's identifier before
// the construct itself is turned into a Definition).
package tsquery

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Lang pairs a compiled parser with the query that drives extraction
// for one language/extension.
type Lang struct {
	Parser *tree_sitter.Parser
	Query  *tree_sitter.Query
}

// New compiles queryStr against grammar and returns nil if either the
// language or the query fails to load — mirroring the teacher's
// defensive setupXxx functions, which simply skip registering a
// parser/query pair rather than panicking on a bad grammar binding.
func New(grammar unsafe.Pointer, queryStr string) *Lang {
	parser := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(grammar)
	if err := parser.SetLanguage(language); err != nil {
		return nil
	}
	query, _ := tree_sitter.NewQuery(language, queryStr)
	if query == nil {
		return nil
	}
	return &Lang{Parser: parser, Query: query}
}

// Match is one query match, reduced to what extractors need: its
// capture nodes addressed by capture name, plus the first ".name"-
// suffixed capture's text (the construct's identifier, when the query
// captured one).
type Match struct {
	Nodes map[string]tree_sitter.Node
	Names map[string]string
}

// Text returns content[node.StartByte():node.EndByte()].
func Text(node tree_sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

// Walk parses content with lang and invokes visit once per query
// match, with every capture in that match indexed by its capture name.
// This is the teacher's extractBasicSymbolsStringRef loop generalized:
// a single cursor walk, captures grouped into capturedNames first so a
// construct capture (e.g. "function") can look up its paired ".name"
// capture before visit builds a Definition from it.
func Walk(lang *Lang, content []byte, visit func(captureName string, node tree_sitter.Node, m Match)) {
	if lang == nil {
		return
	}
	tree := lang.Parser.Parse(content, nil)
	if tree == nil {
		return
	}
	defer tree.Close()

	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	captureNames := lang.Query.CaptureNames()
	matches := qc.Matches(lang.Query, tree.RootNode(), content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		m := Match{Nodes: map[string]tree_sitter.Node{}, Names: map[string]string{}}
		for _, c := range match.Captures {
			name := captureNames[c.Index]
			m.Nodes[name] = c.Node
			if hasSuffix(name, ".name") {
				m.Names[name] = Text(c.Node, content)
			}
		}

		for _, c := range match.Captures {
			name := captureNames[c.Index]
			visit(name, c.Node, m)
		}
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
