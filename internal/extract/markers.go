package extract

import (
	"regexp"
	"strings"
)

// markerKinds is spec.md §4.E's universal development-marker list. Order
// matters only in that longer/more specific tokens (WORKAROUND vs TODO)
// are checked independently — markerPattern matches any one of them.
var markerKinds = []string{
	"TODO", "FIXME", "HACK", "XXX", "BUG", "OPTIMIZE", "REFACTOR",
	"NOTE", "REVIEW", "DEPRECATED", "WORKAROUND", "TEMP", "KLUDGE", "SMELL",
}

var markerPattern = regexp.MustCompile(`\b(` + strings.Join(markerKinds, "|") + `)\b`)

// MarkerKind returns the development marker a comment body carries
// (e.g. "TODO", "FIXME"), or "" if none of spec.md §4.E's marker
// vocabulary appears in it. Matching is case-sensitive: markers are
// conventionally all-caps and a lowercase "todo" inside prose text is
// not a marker.
func MarkerKind(comment string) string {
	m := markerPattern.FindStringSubmatch(comment)
	if m == nil {
		return ""
	}
	return m[1]
}
