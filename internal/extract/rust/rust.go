// Package rust extracts Definitions and CrossReferences from Rust
// source, per spec.md §4.E: fn, struct, enum, trait, impl X for Y ->
// implements refs, use paths, macro_rules!, derive attributes ->
// type_reference refs, mod/pub mod.
package rust

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/extract/tsquery"
)

const query = `
    (impl_item
        trait: (type_identifier) @impl.trait
        type: (type_identifier) @impl.type) @impl_for
    (impl_item
        type: (type_identifier) @impl.type
        !trait) @impl_inherent
    (function_item name: (identifier) @function.name) @function
    (struct_item name: (type_identifier) @struct.name) @struct
    (enum_item name: (type_identifier) @enum.name) @enum
    (trait_item name: (type_identifier) @trait.name) @trait
    (use_declaration) @use
    (mod_item name: (identifier) @mod.name) @mod
    (macro_definition name: (identifier) @macro.name) @macro
    (attribute_item (attribute (identifier) @attr.name (token_tree)? @attr.args)) @attribute
`

var lang = tsquery.New(tree_sitter_rust.Language(), query)

// Extractor implements extract.Extractor for .rs files.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string             { return "rust" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".rs")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	var pendingDerives []string

	tsquery.Walk(lang, content, func(name string, node tree_sitter.Node, m tsquery.Match) {
		line := int(node.StartPosition().Row) + 1
		col := int(node.StartPosition().Column)
		loc := curatortypes.Location{File: path, Line: line, Column: col}

		switch name {
		case "impl_for":
			pendingDerives = nil
			traitName := m.Names["impl.trait"]
			typeName := m.Names["impl.type"]
			if traitName == "" || typeName == "" {
				return
			}
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: traitName, RefKind: curatortypes.RefImplements,
				From: loc, Context: "impl " + traitName + " for " + typeName,
			})
			for _, def := range functionsInImplBody(node, content, path, typeName) {
				res.Definitions = append(res.Definitions, def)
			}

		case "impl_inherent":
			pendingDerives = nil
			typeName := m.Names["impl.type"]
			if typeName == "" {
				return
			}
			for _, def := range functionsInImplBody(node, content, path, typeName) {
				res.Definitions = append(res.Definitions, def)
			}

		case "function":
			pendingDerives = nil
			term := m.Names["function.name"]
			if term == "" || withinImplOrTrait(node) {
				// handled by functionsInImplBody / trait body walk below
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindFunction, Location: loc,
				Context: lineAt(content, line), Language: "rust",
			})

		case "struct":
			term := m.Names["struct.name"]
			if term == "" {
				pendingDerives = nil
				return
			}
			attrs := map[string]string{}
			if derives := takeDerives(&pendingDerives); len(derives) > 0 {
				attrs["derives"] = strings.Join(derives, ",")
				for _, d := range derives {
					res.References = append(res.References, curatortypes.CrossReference{
						TargetTerm: d, RefKind: curatortypes.RefTypeReference,
						From: loc, Context: "#[derive(" + d + ")] on " + term,
					})
				}
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: loc,
				Context: lineAt(content, line), Language: "rust", Attributes: attrs,
			})

		case "enum":
			term := m.Names["enum.name"]
			if term == "" {
				pendingDerives = nil
				return
			}
			attrs := map[string]string{"construct": "enum"}
			if derives := takeDerives(&pendingDerives); len(derives) > 0 {
				attrs["derives"] = strings.Join(derives, ",")
				for _, d := range derives {
					res.References = append(res.References, curatortypes.CrossReference{
						TargetTerm: d, RefKind: curatortypes.RefTypeReference,
						From: loc, Context: "#[derive(" + d + ")] on " + term,
					})
				}
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: loc,
				Context: lineAt(content, line), Language: "rust", Attributes: attrs,
			})

		case "trait":
			pendingDerives = nil
			term := m.Names["trait.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: loc,
				Context: lineAt(content, line), Language: "rust",
				Attributes: map[string]string{"construct": "trait"},
			})
			for _, def := range functionsInImplBody(node, content, path, term) {
				res.Definitions = append(res.Definitions, def)
			}

		case "use":
			pendingDerives = nil
			term := strings.TrimSuffix(strings.TrimPrefix(tsquery.Text(node, content), "use "), ";")
			term = strings.TrimSpace(term)
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindImport, Location: loc,
				Context: lineAt(content, line), Language: "rust",
			})
			res.References = append(res.References, curatortypes.CrossReference{
				TargetTerm: term, RefKind: curatortypes.RefImport,
				From: loc, Context: lineAt(content, line),
			})

		case "mod":
			pendingDerives = nil
			term := m.Names["mod.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindClass, Location: loc,
				Context: lineAt(content, line), Language: "rust",
				Attributes: map[string]string{"construct": "module"},
			})

		case "macro":
			pendingDerives = nil
			term := m.Names["macro.name"]
			if term == "" {
				return
			}
			res.Definitions = append(res.Definitions, curatortypes.Definition{
				Term: term, Kind: curatortypes.KindFunction, Location: loc,
				Context: lineAt(content, line), Language: "rust",
				Attributes: map[string]string{"construct": "macro_rules"},
			})

		case "attribute":
			attrName := m.Names["attr.name"]
			if attrName != "derive" {
				return
			}
			argsNode, ok := m.Nodes["attr.args"]
			if !ok {
				return
			}
			args := strings.Trim(tsquery.Text(argsNode, content), "()")
			for _, d := range strings.Split(args, ",") {
				d = strings.TrimSpace(d)
				if d != "" {
					pendingDerives = append(pendingDerives, d)
				}
			}
		}
	})
	return res, nil
}

// functionsInImplBody collects every function_item directly inside an
// impl_item/trait_item's declaration_list body, naming each
// "Type.method" per spec.md's method-naming convention carried over
// from the Go extractor's receiver handling.
func functionsInImplBody(container tree_sitter.Node, content []byte, path, typeName string) []curatortypes.Definition {
	var out []curatortypes.Definition
	body := container.ChildByFieldName("body")
	if body == nil {
		return out
	}
	count := body.ChildCount()
	for i := uint(0); i < count; i++ {
		child := body.Child(i)
		if child == nil || child.Kind() != "function_item" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := tsquery.Text(*nameNode, content)
		p := child.StartPosition()
		out = append(out, curatortypes.Definition{
			Term:     typeName + "." + name,
			Kind:     curatortypes.KindFunction,
			Location: curatortypes.Location{File: path, Line: int(p.Row) + 1, Column: int(p.Column)},
			Context:  lineAt(content, int(p.Row)+1),
			Language: "rust",
		})
	}
	return out
}

// takeDerives returns the derives accumulated so far and resets *pending
// to nil, so a derive run is only ever attached to the one struct/enum
// it immediately precedes and never lingers for a later, unrelated item.
func takeDerives(pending *[]string) []string {
	derives := *pending
	*pending = nil
	return derives
}

func withinImplOrTrait(node tree_sitter.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "impl_item", "trait_item":
			return true
		}
	}
	return false
}

func lineAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line-1 < 0 || line-1 >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
