// Package golang extracts Definitions and CrossReferences from Go
// source, per spec.md §4.E's Go contract: package, func (receiver ->
// Type.Method), type struct/interface, consts, vars, imports with
// alias, channel operations noted in attributes, embedded types ->
// extends refs.
package golang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/extract/tsquery"
)

const query = `
    (package_clause (package_identifier) @package.name) @package
    (function_declaration name: (identifier) @function.name) @function
    (method_declaration
        receiver: (parameter_list) @method.receiver
        name: (field_identifier) @method.name) @method
    (type_declaration (type_spec name: (type_identifier) @type.name) @type)
    (const_spec) @const
    (var_spec) @var
    (import_spec path: (interpreted_string_literal) @import.path) @import
`

var lang = tsquery.New(tree_sitter_go.Language(), query)

// Extractor implements extract.Extractor for .go files.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string         { return "golang" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".go")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	var currentStruct string // most recently opened type name, for embedded-field extends refs

	tsquery.Walk(lang, content, func(name string, node tree_sitter.Node, m tsquery.Match) {
		line := int(node.StartPosition().Row) + 1
		col := int(node.StartPosition().Column)

		switch name {
		case "package":
			term := m.Names["package.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:     term,
				Kind:     curatortypes.KindVariable,
				Location: curatortypes.Location{File: path, Line: line, Column: col},
				Context:  lineAt(content, line),
				Language: "go",
				Attributes: map[string]string{"construct": "package"},
			})

		case "function":
			term := m.Names["function.name"]
			if term == "" {
				return
			}
			attrs := map[string]string{}
			if hasChannelOp(node, content) {
				attrs["channel_ops"] = "true"
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:       term,
				Kind:       curatortypes.KindFunction,
				Location:   curatortypes.Location{File: path, Line: line, Column: col},
				Context:    lineAt(content, line),
				Language:   "go",
				Attributes: attrs,
			})

		case "method":
			methodName := m.Names["method.name"]
			if methodName == "" {
				return
			}
			recvNode, ok := m.Nodes["method.receiver"]
			term := methodName
			if ok {
				if recv := receiverTypeName(recvNode, content); recv != "" {
					term = recv + "." + methodName
				}
			}
			attrs := map[string]string{}
			if hasChannelOp(node, content) {
				attrs["channel_ops"] = "true"
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:       term,
				Kind:       curatortypes.KindFunction,
				Location:   curatortypes.Location{File: path, Line: line, Column: col},
				Context:    lineAt(content, line),
				Language:   "go",
				Attributes: attrs,
			})

		case "type":
			term := m.Names["type.name"]
			if term == "" {
				return
			}
			currentStruct = term
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:     term,
				Kind:     curatortypes.KindClass,
				Location: curatortypes.Location{File: path, Line: line, Column: col},
				Context:  lineAt(content, line),
				Language: "go",
			})
			for _, embedded := range embeddedFieldTypes(node, content) {
				res.References = append(res.References, curatortypes.CrossReference{
					TargetTerm: embedded,
					RefKind:    curatortypes.RefExtends,
					From:       curatortypes.Location{File: path, Line: line, Column: col},
					Context:    term + " embeds " + embedded,
				})
			}

		case "const":
			for _, id := range specNames(node) {
				res.Definitions = append(res.Definitions, curatortypes.Definition{
					Term:     tsquery.Text(id, content),
					Kind:     curatortypes.KindConstant,
					Location: curatortypes.Location{File: path, Line: int(id.StartPosition().Row) + 1, Column: int(id.StartPosition().Column)},
					Context:  lineAt(content, int(id.StartPosition().Row)+1),
					Language: "go",
				})
			}

		case "var":
			for _, id := range specNames(node) {
				res.Definitions = append(res.Definitions, curatortypes.Definition{
					Term:     tsquery.Text(id, content),
					Kind:     curatortypes.KindVariable,
					Location: curatortypes.Location{File: path, Line: int(id.StartPosition().Row) + 1, Column: int(id.StartPosition().Column)},
					Context:  lineAt(content, int(id.StartPosition().Row)+1),
					Language: "go",
				})
			}

		case "import":
			pathNode, ok := m.Nodes["import.path"]
			if !ok {
				return
			}
			term := strings.Trim(tsquery.Text(pathNode, content), `"`)
			attrs := map[string]string{}
			if alias := importAlias(node, content); alias != "" {
				attrs["alias"] = alias
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term:       term,
				Kind:       curatortypes.KindImport,
				Location:   curatortypes.Location{File: path, Line: line, Column: col},
				Context:    lineAt(content, line),
				Language:   "go",
				Attributes: attrs,
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: term,
				RefKind:    curatortypes.RefImport,
				From:       curatortypes.Location{File: path, Line: line, Column: col},
				Context:    lineAt(content, line),
			})
		}
	})
	_ = currentStruct
	return res, nil
}

// receiverTypeName strips the pointer star and parameter name from a
// method receiver's parameter_list text, e.g. "(s *Server)" -> "Server".
func receiverTypeName(recv tree_sitter.Node, content []byte) string {
	text := tsquery.Text(recv, content)
	text = strings.Trim(text, "()")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	return strings.TrimPrefix(typ, "*")
}

// specNames returns every identifier child of a const_spec/var_spec
// that precedes the spec's type/value, i.e. the declared names. Go's
// grammar allows "const a, b = 1, 2"; every top-level identifier child
// is a name.
func specNames(spec tree_sitter.Node) []tree_sitter.Node {
	var out []tree_sitter.Node
	count := spec.ChildCount()
	for i := uint(0); i < count; i++ {
		child := spec.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "identifier" {
			out = append(out, *child)
		}
	}
	return out
}

// embeddedFieldTypes returns the type names of anonymous (embedded)
// fields inside a struct_type body: field_declarations with no "name"
// field.
func embeddedFieldTypes(typeSpec tree_sitter.Node, content []byte) []string {
	var out []string
	structType := typeSpec.ChildByFieldName("type")
	if structType == nil || structType.Kind() != "struct_type" {
		return out
	}
	body := structType.ChildByFieldName("body")
	if body == nil {
		return out
	}
	count := body.ChildCount()
	for i := uint(0); i < count; i++ {
		field := body.Child(i)
		if field == nil || field.Kind() != "field_declaration" {
			continue
		}
		if field.ChildByFieldName("name") != nil {
			continue
		}
		typ := field.ChildByFieldName("type")
		if typ == nil {
			continue
		}
		name := tsquery.Text(*typ, content)
		name = strings.TrimPrefix(name, "*")
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		out = append(out, name)
	}
	return out
}

func importAlias(importSpec tree_sitter.Node, content []byte) string {
	nameField := importSpec.ChildByFieldName("name")
	if nameField == nil {
		return ""
	}
	return tsquery.Text(*nameField, content)
}

func hasChannelOp(node tree_sitter.Node, content []byte) bool {
	return strings.Contains(tsquery.Text(node, content), "<-")
}

func lineAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
