package semindex

import "strings"

// tieredScore implements spec.md §4.F's five-tier match scoring for a
// single (query, term) pair, excluding Tier 5 (abbreviation expansion),
// which the caller applies separately by re-scoring against expanded
// variants and capping the result at 0.50.
//
// The teacher's semantic_scorer.go makes these weights configurable;
// the spec pins them to fixed constants, so they're inlined here rather
// than carried as tunables.
func tieredScore(query, term string) (float64, bool) {
	if query == "" {
		return 0, false
	}
	nq := strings.ToLower(query)
	nterm := strings.ToLower(term)

	if nq == nterm {
		if query == term {
			return 1.00, true // Tier 1: exact, case-preserved
		}
		return 0.95, true // Tier 2: exact modulo case
	}

	idx := strings.Index(nterm, nq)
	if idx < 0 {
		return 0, false
	}

	switch {
	case idx == 0:
		return 0.85, true // Tier 3a: prefix
	case idx+len(nq) == len(nterm):
		return 0.80, true // Tier 3b: suffix
	case isWordBoundary(term, idx):
		return 0.75, true // Tier 3c: interior word boundary
	default:
		return 0.60 * float64(len(nq)) / float64(len(nterm)), true // Tier 4
	}
}

// isWordBoundary reports whether a match starting at byte offset idx in
// term begins a new "word" within it: after a separator, at a
// lower-to-upper case transition, or immediately after a recognized verb
// prefix (getAuthToken -> "auth" boundary after "get").
func isWordBoundary(term string, idx int) bool {
	if idx <= 0 || idx >= len(term) {
		return idx == 0
	}
	prev := term[idx-1]
	switch prev {
	case '_', '-', '.', '/':
		return true
	}
	if isLower(prev) && isUpper(term[idx]) {
		return true
	}
	lower := strings.ToLower(term)
	for _, p := range wordBoundaryPrefixes {
		if idx == len(p) && lower[:idx] == p {
			return true
		}
	}
	return false
}

var wordBoundaryPrefixes = []string{"get", "set", "is", "has", "create", "update", "delete", "handle", "process"}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// bestScore computes the highest tier score for term against query,
// including the Tier 5 abbreviation-expansion fallback capped at 0.50.
// The bool reports whether term matched at any tier.
func bestScore(query, term string) (float64, bool) {
	if score, ok := tieredScore(query, term); ok {
		return score, true
	}
	best := 0.0
	matched := false
	for _, variant := range expandAbbreviations(query) {
		if score, ok := tieredScore(variant, term); ok {
			capped := score
			if capped > 0.50 {
				capped = 0.50
			}
			if !matched || capped > best {
				best = capped
				matched = true
			}
		}
	}
	return best, matched
}
