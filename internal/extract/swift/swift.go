// Package swift extracts Definitions from Swift source by line
// scanning, per spec.md §4.E: func, class/struct/enum, protocol,
// extension, property wrappers in attributes, access modifiers in
// attributes. No tree-sitter grammar for Swift is in the retrieval
// pack, so this follows the teacher's textual-extraction style used
// for the JSON/YAML/TOML/env formats rather than a parse tree.
package swift

import (
	"regexp"
	"strings"

	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/extract"
)

var (
	declRe    = regexp.MustCompile(`^\s*(?:(public|private|internal|fileprivate|open)\s+)?(?:(static|final)\s+)?(func|class|struct|enum|protocol|extension)\s+([A-Za-z_][\w]*)`)
	wrapperRe = regexp.MustCompile(`^\s*@([A-Za-z_][\w]*)`)
)

var kindFor = map[string]curatortypes.Kind{
	"func":      curatortypes.KindFunction,
	"class":     curatortypes.KindClass,
	"struct":    curatortypes.KindClass,
	"enum":      curatortypes.KindClass,
	"protocol":  curatortypes.KindClass,
	"extension": curatortypes.KindClass,
}

// Extractor implements extract.Extractor for .swift files.
type Extractor struct{}

func New() Extractor { return Extractor{} }

func (Extractor) Name() string             { return "swift" }
func (Extractor) Matches(path string) bool { return extract.ExtMatcher(".swift")(path) }

func (Extractor) Extract(path string, content []byte) (extract.Result, error) {
	var res extract.Result
	lines := strings.Split(string(content), "\n")

	var pendingWrappers []string
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if m := wrapperRe.FindStringSubmatch(trimmed); m != nil {
			pendingWrappers = append(pendingWrappers, m[1])
			continue
		}

		m := declRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		access, construct, term := m[1], m[3], m[4]

		attrs := map[string]string{"construct": construct}
		if access != "" {
			attrs["access"] = access
		}
		if len(pendingWrappers) > 0 {
			attrs["property_wrappers"] = strings.Join(pendingWrappers, ",")
		}
		pendingWrappers = nil

		res.Definitions = append(res.Definitions, curatortypes.Definition{
			Term:       term,
			Kind:       kindFor[construct],
			Location:   curatortypes.Location{File: path, Line: i + 1, Column: strings.Index(line, construct)},
			Context:    line,
			Language:   "swift",
			Attributes: attrs,
		})
	}
	return res, nil
}
