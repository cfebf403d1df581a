// Package jsts extracts Definitions and CrossReferences from the
// JS/TS family (.js .jsx .mjs .cjs .ts .tsx), per spec.md §4.E:
// functions (named, arrow, async, method), classes (Class.method form
// for methods), interfaces/type aliases (kind=class), variables/
// constants, ES and CommonJS imports with default/named/namespace
// distinctions, new X() -> instantiation refs, extends/implements ->
// refs, call sites -> call refs, JSX element names -> type_reference.
package jsts

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/extract/tsquery"
)

const jsQuery = `
    (function_declaration name: (identifier) @function.name) @function
    (generator_function_declaration name: (identifier) @function.name) @function
    (variable_declarator
        name: (identifier) @function.name
        value: [(arrow_function) (function_expression) (generator_function)]) @function
    (variable_declarator
        name: (identifier) @variable.name
        value: (_) @variable.value) @variable
    (method_definition name: (property_identifier) @method.name) @method
    (class_declaration name: (identifier) @class.name) @class
    (import_statement source: (string) @import.source) @import
    (call_expression function: (identifier) @call.name) @call
    (call_expression function: (member_expression property: (property_identifier) @call.name)) @call
    (call_expression
        function: (identifier) @commonjs.fn
        arguments: (arguments (string) @commonjs.source)) @commonjs_call
    (new_expression constructor: (identifier) @new.name) @new
    (jsx_opening_element name: (identifier) @jsx.name) @jsx
    (jsx_self_closing_element name: (identifier) @jsx.name) @jsx
`

const tsQuery = `
    (function_declaration name: (identifier) @function.name) @function
    (generator_function_declaration name: (identifier) @function.name) @function
    (method_definition name: (property_identifier) @method.name) @method
    (variable_declarator
        name: (identifier) @function.name
        value: [(arrow_function) (function_expression) (generator_function)]) @function
    (variable_declarator
        name: (identifier) @variable.name
        value: (_) @variable.value) @variable
    (class_declaration name: (type_identifier) @class.name) @class
    (interface_declaration name: (type_identifier) @interface.name) @interface
    (type_alias_declaration name: (type_identifier) @type.name) @type
    (enum_declaration name: (identifier) @enum.name) @enum
    (import_statement source: (string) @import.source) @import
    (call_expression function: (identifier) @call.name) @call
    (call_expression function: (member_expression property: (property_identifier) @call.name)) @call
    (call_expression
        function: (identifier) @commonjs.fn
        arguments: (arguments (string) @commonjs.source)) @commonjs_call
    (new_expression constructor: (identifier) @new.name) @new
    (jsx_opening_element name: (identifier) @jsx.name) @jsx
    (jsx_self_closing_element name: (identifier) @jsx.name) @jsx
`

var (
	jsLang  = tsquery.New(tree_sitter_javascript.Language(), jsQuery)
	tsLang  = tsquery.New(tree_sitter_typescript.LanguageTypescript(), tsQuery)
	tsxLang = tsquery.New(tree_sitter_typescript.LanguageTSX(), tsQuery)
)

var heritageRe = regexp.MustCompile(`\bextends\s+([A-Za-z_$][\w$.]*)|implements\s+([^{]+)`)

// Extractor implements extract.Extractor for the JS/TS family.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string { return "jsts" }

func (Extractor) Matches(path string) bool {
	return extract.ExtMatcher(".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx")(path)
}

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	lang, language := selectLang(path)
	var res extract.Result
	var currentClass string

	tsquery.Walk(lang, content, func(name string, node tree_sitter.Node, m tsquery.Match) {
		loc := locOf(node)

		switch name {
		case "function":
			term := m.Names["function.name"]
			if term == "" {
				return
			}
			emitFunction(&res, path, language, loc, term, node, content)

		case "method":
			term := m.Names["method.name"]
			if term == "" {
				return
			}
			if currentClass != "" {
				term = currentClass + "." + term
			}
			emitFunction(&res, path, language, loc, term, node, content)

		case "variable":
			term := m.Names["variable.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindVariable, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
			})

		case "class":
			term := m.Names["class.name"]
			if term == "" {
				return
			}
			currentClass = term
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
			})
			emitHeritageRefs(&res, path, language, loc, term, node, content)

		case "interface":
			term := m.Names["interface.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
				Attributes: map[string]string{"construct": "interface"},
			})

		case "type":
			term := m.Names["type.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
				Attributes: map[string]string{"construct": "type_alias"},
			})

		case "enum":
			term := m.Names["enum.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
				Attributes: map[string]string{"construct": "enum"},
			})

		case "import":
			srcNode, ok := m.Nodes["import.source"]
			if !ok {
				return
			}
			source := strings.Trim(tsquery.Text(srcNode, content), `"'`)
			attrs := importKindAttrs(node, content)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: source, Kind: curatortypes.KindImport, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language, Attributes: attrs,
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: source, RefKind: curatortypes.RefImport,
				From: locAt(path, loc), Context: contextLine(content, loc.Line),
			})

		case "call":
			term := m.Names["call.name"]
			if term == "" || term == "require" {
				// A bare require(...) call is a CommonJS import, not a
				// call site — the "commonjs_call" case below emits the
				// import Definition/CrossReference for it instead.
				return
			}
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: term, RefKind: curatortypes.RefCall,
				From: locAt(path, loc), Context: contextLine(content, loc.Line),
			})

		case "commonjs_call":
			fnNode, ok := m.Nodes["commonjs.fn"]
			if !ok || tsquery.Text(fnNode, content) != "require" {
				return
			}
			srcNode, ok := m.Nodes["commonjs.source"]
			if !ok {
				return
			}
			source := strings.Trim(tsquery.Text(srcNode, content), `"'`)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: source, Kind: curatortypes.KindImport, Location: locAt(path, loc),
				Context: contextLine(content, loc.Line), Language: language,
				Attributes: map[string]string{"import_kind": "commonjs"},
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: source, RefKind: curatortypes.RefImport,
				From: locAt(path, loc), Context: contextLine(content, loc.Line),
			})

		case "new":
			term := m.Names["new.name"]
			if term == "" {
				return
			}
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: term, RefKind: curatortypes.RefInstantiation,
				From: locAt(path, loc), Context: contextLine(content, loc.Line),
			})

		case "jsx":
			term := m.Names["jsx.name"]
			if term == "" {
				return
			}
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: term, RefKind: curatortypes.RefTypeReference,
				From: locAt(path, loc), Context: contextLine(content, loc.Line),
			})
		}
	})

	return res, nil
}

func selectLang(path string) (*tsquery.Lang, string) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tsx"):
		return tsxLang, "typescript"
	case strings.HasSuffix(lower, ".ts"):
		return tsLang, "typescript"
	default:
		return jsLang, "javascript"
	}
}

type pos struct {
	Line, Column int
}

func locOf(node tree_sitter.Node) pos {
	p := node.StartPosition()
	return pos{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func locAt(path string, p pos) curatortypes.Location {
	return curatortypes.Location{File: path, Line: p.Line, Column: p.Column}
}

func contextLine(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

func emitFunction(res *extract.Result, path, language string, loc pos, term string, node tree_sitter.Node, content []byte) {
	res.Definitions = append(res.Definitions, curatortypes.Definition{
		Term: term, Kind: curatortypes.KindFunction, Location: locAt(path, loc),
		Context: contextLine(content, loc.Line), Language: language,
	})
}

// emitHeritageRefs finds "extends X" / "implements X, Y" in the
// class's own source text (header, before the body) rather than
// walking TS's class_heritage/extends_clause/implements_clause nodes
// directly — more robust to grammar-version field-name drift across
// the JS and TS grammars than pinning to their exact node shapes.
func emitHeritageRefs(res *extract.Result, path, language string, loc pos, className string, node tree_sitter.Node, content []byte) {
	text := tsquery.Text(node, content)
	if idx := strings.Index(text, "{"); idx >= 0 {
		text = text[:idx]
	}
	for _, m := range heritageRe.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: m[1], RefKind: curatortypes.RefExtends,
				From: locAt(path, loc), Context: className + " extends " + m[1],
			})
		}
		if m[2] != "" {
			for _, name := range strings.Split(m[2], ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: name, RefKind: curatortypes.RefImplements,
					From: locAt(path, loc), Context: className + " implements " + name,
				})
			}
		}
	}
}

var (
	defaultImportRe   = regexp.MustCompile(`^\s*import\s+[A-Za-z_$][\w$]*[\s,]`)
	namespaceImportRe = regexp.MustCompile(`\*\s+as\s+[A-Za-z_$]`)
)

// importKindAttrs classifies an ES import_statement's own text as
// default / named / namespace, per spec.md §4.E's "default/named/
// namespace distinctions". CommonJS require(...) calls never parse as
// import_statement nodes, so they're never reached here — they're
// matched and classified separately by the "commonjs_call" case, which
// sets import_kind=commonjs directly.
func importKindAttrs(node tree_sitter.Node, content []byte) map[string]string {
	text := tsquery.Text(node, content)
	switch {
	case namespaceImportRe.MatchString(text):
		return map[string]string{"import_kind": "namespace"}
	case defaultImportRe.MatchString(text):
		return map[string]string{"import_kind": "default"}
	default:
		return map[string]string{"import_kind": "named"}
	}
}
