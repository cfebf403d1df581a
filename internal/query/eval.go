package query

import (
	"regexp"

	"github.com/codecurator/semindex/internal/semindex"
)

// fileLine is the (file,line) set-algebra key spec.md §4.G specifies
// for AND/OR/NOT combination — distinct from semindex's own (term,line)
// dedup key, which governs within-search deduplication rather than
// cross-leaf set combination.
type fileLine struct {
	file string
	line int
}

func keyOf(r semindex.Result) fileLine {
	return fileLine{file: r.Definition.Location.File, line: r.Definition.Location.Line}
}

type resultSet map[fileLine]semindex.Result

func evalNode(n *node, idx *semindex.Index, opts semindex.Options) (resultSet, error) {
	switch n.kind {
	case kindLeaf:
		return evalLeaf(n, idx, opts)
	case kindNot:
		inner, err := evalNode(n.children[0], idx, opts)
		if err != nil {
			return nil, err
		}
		universe := universeSet(idx, opts)
		return subtract(universe, inner), nil
	case kindAnd:
		return evalAnd(n, idx, opts)
	case kindOr:
		merged := resultSet{}
		for _, c := range n.children {
			set, err := evalNode(c, idx, opts)
			if err != nil {
				return nil, err
			}
			unionInto(merged, set)
		}
		return merged, nil
	default:
		return resultSet{}, nil
	}
}

func evalLeaf(n *node, idx *semindex.Index, opts semindex.Options) (resultSet, error) {
	leafOpts := opts
	if n.isRegex {
		if _, err := regexp.Compile(n.term); err != nil {
			return nil, err
		}
		leafOpts.Regex = true
		leafOpts.Exact = false
	}
	results := idx.Search(n.term, leafOpts)
	set := make(resultSet, len(results))
	for _, r := range results {
		k := keyOf(r)
		if existing, ok := set[k]; !ok || r.Score > existing.Score {
			set[k] = r
		}
	}
	return set, nil
}

// evalAnd intersects every non-NOT child's result set by (file,line),
// then removes any key present in a NOT child's inner expression —
// equivalent to spec.md §4.G's "NOT filters against the current
// universe (the union of all positive-side results in the same
// query)" when at least one positive sibling exists. With no positive
// sibling (a bare leading NOT under this AND), the universe falls back
// to every definition matching the query's kind/file filters.
func evalAnd(n *node, idx *semindex.Index, opts semindex.Options) (resultSet, error) {
	var positives []resultSet
	var negatives []resultSet
	for _, c := range n.children {
		if c.kind == kindNot {
			set, err := evalNode(c.children[0], idx, opts)
			if err != nil {
				return nil, err
			}
			negatives = append(negatives, set)
			continue
		}
		set, err := evalNode(c, idx, opts)
		if err != nil {
			return nil, err
		}
		positives = append(positives, set)
	}

	var result resultSet
	if len(positives) == 0 {
		result = universeSet(idx, opts)
	} else {
		result = intersect(positives)
	}
	for _, neg := range negatives {
		result = subtract(result, neg)
	}
	return result, nil
}

func universeSet(idx *semindex.Index, opts semindex.Options) resultSet {
	universeOpts := semindex.Options{Kinds: opts.Kinds, Files: opts.Files}
	results := idx.Search("", universeOpts)
	set := make(resultSet, len(results))
	for _, r := range results {
		set[keyOf(r)] = r
	}
	return set
}

func intersect(sets []resultSet) resultSet {
	if len(sets) == 0 {
		return resultSet{}
	}
	result := resultSet{}
	for k, r := range sets[0] {
		inAll := true
		best := r
		for _, other := range sets[1:] {
			or, ok := other[k]
			if !ok {
				inAll = false
				break
			}
			if or.Score > best.Score {
				best = or
			}
		}
		if inAll {
			result[k] = best
		}
	}
	return result
}

func subtract(base, remove resultSet) resultSet {
	result := make(resultSet, len(base))
	for k, r := range base {
		if _, ok := remove[k]; ok {
			continue
		}
		result[k] = r
	}
	return result
}

func unionInto(dst, src resultSet) {
	for k, r := range src {
		if existing, ok := dst[k]; !ok || r.Score > existing.Score {
			dst[k] = r
		}
	}
}
