// Package python extracts Definitions and CrossReferences from Python
// source, per spec.md §4.E: def/async def, class, decorators (as call
// refs on the decorated symbol's line), module-level constants
// (UPPER_CASE), from…import and import statements, docstrings as
// comments, inheritance (including multiple), __dunder__ methods
// recognized.
package python

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/extract/tsquery"
)

const query = `
    (class_definition
        body: (block
            (function_definition name: (identifier) @method.name) @method))
    (function_definition name: (identifier) @function.name) @function
    (class_definition name: (identifier) @class.name) @class
    (decorated_definition) @decorated
    (expression_statement (assignment left: (identifier) @const.name)) @const
    (import_statement) @import
    (import_from_statement) @import
    (expression_statement (string) @docstring) @docstring
`

var lang = tsquery.New(tree_sitter_python.Language(), query)

var upperCaseName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
var dunderName = regexp.MustCompile(`^__[a-zA-Z0-9_]+__$`)

// Extractor implements extract.Extractor for .py files.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string             { return "python" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".py")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	var currentClass string
	seenClassHeader := map[int]string{} // class header line -> class name, for a following decorated_definition inside it

	tsquery.Walk(lang, content, func(name string, node tree_sitter.Node, m tsquery.Match) {
		line := int(node.StartPosition().Row) + 1
		col := int(node.StartPosition().Column)
		loc := curatortypes.Location{File: path, Line: line, Column: col}

		switch name {
		case "class":
			term := m.Names["class.name"]
			if term == "" {
				return
			}
			currentClass = term
			seenClassHeader[line] = term
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: loc,
				Context: lineAt(content, line), Language: "python",
			})
			for _, base := range baseClassNames(node, content) {
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: base, RefKind: curatortypes.RefExtends,
					From: loc, Context: term + " inherits from " + base,
				})
			}

		case "function":
			term := m.Names["function.name"]
			if term == "" || isDirectClassMethod(node) {
				// Already captured by the "method" pattern below;
				// the generic function_definition pattern also
				// matches nested methods since it has no "not inside
				// a class" constraint.
				return
			}
			attrs := map[string]string{}
			if dunderName.MatchString(term) {
				attrs["dunder"] = "true"
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindFunction, Location: loc,
				Context: lineAt(content, line), Language: "python", Attributes: attrs,
			})

		case "method":
			term := m.Names["method.name"]
			if term == "" {
				return
			}
			full := term
			if currentClass != "" {
				full = currentClass + "." + term
			}
			attrs := map[string]string{}
			if dunderName.MatchString(term) {
				attrs["dunder"] = "true"
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: full, Kind: curatortypes.KindFunction, Location: loc,
				Context: lineAt(content, line), Language: "python", Attributes: attrs,
			})

		case "const":
			term := m.Names["const.name"]
			if term == "" || !upperCaseName.MatchString(term) {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindConstant, Location: loc,
				Context: lineAt(content, line), Language: "python",
			})

		case "import":
			for _, imp := range importedNames(node, content) {
				res.Definitions = append(res.Definitions, curatortypes.Definition{
					Term: imp, Kind: curatortypes.KindImport, Location: loc,
					Context: lineAt(content, line), Language: "python",
				})
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: imp, RefKind: curatortypes.RefImport,
					From: loc, Context: lineAt(content, line),
				})
			}

		case "decorated":
			for _, decoName := range decoratorNames(node, content) {
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: decoName, RefKind: curatortypes.RefCall,
					From: loc, Context: "@" + decoName,
				})
			}

		case "docstring":
			text := tsquery.Text(node, content)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: strings.TrimSpace(trimQuotes(text)), Kind: curatortypes.KindComment,
				Location: loc, Context: lineAt(content, line), Language: "python",
				Attributes: map[string]string{"construct": "docstring"},
			})
		}
	})
	_ = seenClassHeader
	return res, nil
}

// baseClassNames reads a class_definition's "superclasses" argument
// list field text and splits it on commas, skipping keyword arguments
// (e.g. "metaclass=ABCMeta") which have no place as a definition term.
func baseClassNames(classDef tree_sitter.Node, content []byte) []string {
	superclasses := classDef.ChildByFieldName("superclasses")
	if superclasses == nil {
		return nil
	}
	text := strings.Trim(tsquery.Text(*superclasses, content), "()")
	var out []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "=") {
			continue
		}
		out = append(out, part)
	}
	return out
}

// decoratorNames extracts the identifier (or attribute-chain) name
// from each decorator attached to a decorated_definition.
func decoratorNames(decorated tree_sitter.Node, content []byte) []string {
	var out []string
	count := decorated.ChildCount()
	for i := uint(0); i < count; i++ {
		child := decorated.Child(i)
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		text := tsquery.Text(*child, content)
		text = strings.TrimPrefix(text, "@")
		if idx := strings.IndexAny(text, "(\n"); idx >= 0 {
			text = text[:idx]
		}
		if idx := strings.LastIndex(text, "."); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

func importedNames(importStmt tree_sitter.Node, content []byte) []string {
	text := tsquery.Text(importStmt, content)
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "from "):
		rest := strings.TrimPrefix(text, "from ")
		parts := strings.SplitN(rest, " import ", 2)
		if len(parts) != 2 {
			return []string{rest}
		}
		module := strings.TrimSpace(parts[0])
		var out []string
		for _, name := range strings.Split(parts[1], ",") {
			name = strings.TrimSpace(name)
			name = strings.TrimPrefix(name, "(")
			name = strings.TrimSuffix(name, ")")
			if name == "" {
				continue
			}
			out = append(out, module+"."+name)
		}
		if len(out) == 0 {
			return []string{module}
		}
		return out
	case strings.HasPrefix(text, "import "):
		rest := strings.TrimPrefix(text, "import ")
		var out []string
		for _, name := range strings.Split(rest, ",") {
			name = strings.TrimSpace(name)
			if idx := strings.Index(name, " as "); idx >= 0 {
				name = strings.TrimSpace(name[:idx])
			}
			if name != "" {
				out = append(out, name)
			}
		}
		return out
	default:
		return nil
	}
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// isDirectClassMethod reports whether node (a function_definition) is
// a direct child of a class body block.
func isDirectClassMethod(node tree_sitter.Node) bool {
	block := node.Parent()
	if block == nil || block.Kind() != "block" {
		return false
	}
	classDef := block.Parent()
	return classDef != nil && classDef.Kind() == "class_definition"
}

func lineAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
