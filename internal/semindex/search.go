package semindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codecurator/semindex/internal/curatortypes"
)

// SortMode selects the ordering search results are returned in.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortUsage     SortMode = "usage"
	SortName      SortMode = "name"
	SortFile      SortMode = "file"
)

// Options controls a Search call. The zero value matches every kind and
// file, sorts by relevance, and applies no result cap.
type Options struct {
	Kinds []curatortypes.Kind // empty means "all kinds"
	Files []string            // glob or substring filters; empty means "all files"
	Exact bool                // Tier 1 (case-folded exact) only
	Regex bool                // query is a regular expression
	Sort  SortMode
	Max   int // <=0 means unbounded
}

// Result pairs a matched Definition with its relevance score, its total
// usage_count (|refs_by_target[term]|), and up to 3 sample usages.
type Result struct {
	Definition   curatortypes.Definition
	Score        float64
	UsageCount   int
	SampleUsages []curatortypes.CrossReference
}

const maxSampleUsages = 3

// Search implements spec.md §4.F's query modes: empty query (every
// definition at 0.50), exact (Tier 1 only), regex, and the normal
// five-tier scoring with Tier-5 abbreviation expansion.
func (idx *Index) Search(query string, opts Options) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	defs := idx.allDefinitions()
	var re *regexp.Regexp
	if opts.Regex {
		compiled, err := regexp.Compile(query)
		if err != nil {
			return nil
		}
		re = compiled
	}

	results := make([]Result, 0, len(defs))
	for _, d := range defs {
		if !matchesFilters(d, opts) {
			continue
		}

		var score float64
		var ok bool
		switch {
		case re != nil:
			if re.MatchString(d.Term) {
				score, ok = 0.70, true
			}
		case query == "":
			score, ok = 0.50, true
		case opts.Exact:
			if d.Term == query || curatortypes.NormalizeTerm(d.Term) == curatortypes.NormalizeTerm(query) {
				score, ok = 1.00, true
			}
		default:
			score, ok = bestScore(query, d.Term)
		}
		if !ok {
			continue
		}

		usages := idx.refsByTarget[d.Term]
		sampleCount := len(usages)
		if sampleCount > maxSampleUsages {
			sampleCount = maxSampleUsages
		}
		samples := make([]curatortypes.CrossReference, sampleCount)
		for i := 0; i < sampleCount; i++ {
			samples[i] = *usages[i]
		}

		results = append(results, Result{
			Definition:   *d,
			Score:        score,
			UsageCount:   len(usages),
			SampleUsages: samples,
		})
	}

	sortResults(results, opts.Sort)
	if opts.Max > 0 && len(results) > opts.Max {
		results = results[:opts.Max]
	}
	return results
}

// SearchGroup runs Search for each term in terms and merges the results,
// keeping the highest score seen for any (file, line, term) triple.
func (idx *Index) SearchGroup(terms []string, opts Options) []Result {
	best := map[curatortypes.DefKey]Result{}
	order := make([]curatortypes.DefKey, 0)
	for _, term := range terms {
		for _, r := range idx.Search(term, opts) {
			key := r.Definition.Key()
			if existing, ok := best[key]; !ok || r.Score > existing.Score {
				if _, seen := best[key]; !seen {
					order = append(order, key)
				}
				best[key] = r
			}
		}
	}
	merged := make([]Result, 0, len(order))
	for _, k := range order {
		merged = append(merged, best[k])
	}
	sortResults(merged, opts.Sort)
	if opts.Max > 0 && len(merged) > opts.Max {
		merged = merged[:opts.Max]
	}
	return merged
}

// Impact is spec.md §4.F's impact-analysis result: every reference
// targeting term, grouped by ref_kind, plus the count of distinct files
// those references originate from. Callers may truncate References.
type Impact struct {
	References []curatortypes.CrossReference
	FileCount  int
	ByKind     map[curatortypes.RefKind]int
}

// Impact reports what changing term would affect: every CrossReference
// whose target_term is term, grouped by ref_kind.
func (idx *Index) Impact(term string) Impact {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := Impact{ByKind: map[curatortypes.RefKind]int{}}
	files := map[string]bool{}
	for _, r := range idx.refsByTarget[term] {
		result.References = append(result.References, *r)
		result.ByKind[r.RefKind]++
		files[r.From.File] = true
	}
	result.FileCount = len(files)
	return result
}

func matchesFilters(d *curatortypes.Definition, opts Options) bool {
	if len(opts.Kinds) > 0 {
		match := false
		for _, k := range opts.Kinds {
			if d.Kind == k {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if len(opts.Files) > 0 {
		match := false
		for _, pattern := range opts.Files {
			if ok, _ := doublestar.Match(pattern, d.Location.File); ok {
				match = true
				break
			}
			if strings.Contains(d.Location.File, pattern) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

// SortResults orders results per spec.md §4.G's sort modes (relevance,
// usage, name, file). Exported so internal/query can apply identical
// ordering after combining multiple leaf searches via the pattern
// algebra, instead of re-deriving the tie-break rules.
func SortResults(results []Result, mode SortMode) {
	sortResults(results, mode)
}

func sortResults(results []Result, mode SortMode) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch mode {
		case SortUsage:
			if a.UsageCount != b.UsageCount {
				return a.UsageCount > b.UsageCount
			}
		case SortName:
			if an, bn := strings.ToLower(a.Definition.Term), strings.ToLower(b.Definition.Term); an != bn {
				return an < bn
			}
		case SortFile:
			if a.Definition.Location.File != b.Definition.Location.File {
				return a.Definition.Location.File < b.Definition.Location.File
			}
			if a.Definition.Location.Line != b.Definition.Location.Line {
				return a.Definition.Location.Line < b.Definition.Location.Line
			}
		default: // relevance
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.UsageCount != b.UsageCount {
				return a.UsageCount > b.UsageCount
			}
		}
		// Final tie-break for every mode: file, then line.
		if a.Definition.Location.File != b.Definition.Location.File {
			return a.Definition.Location.File < b.Definition.Location.File
		}
		return a.Definition.Location.Line < b.Definition.Location.Line
	})
}
