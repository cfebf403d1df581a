package semindex

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
	"time"

	"github.com/codecurator/semindex/internal/curatorerrors"
	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/persist"
)

// LargeIndexThreshold is the entry count spec.md §4.F's persistence
// section switches at: past this many definitions, Save writes a
// lightweight summary instead of the full index.
const LargeIndexThreshold = 50_000

var errSummaryNotReloadable = errors.New("file is a large-index summary, not a reloadable snapshot")

// fileBucket and termBucket are a [key, value] pair over Definitions;
// refBucket is the same shape over CrossReferences. snapshot serializes
// all four of Index's internal maps this way, matching spec.md §4.F's
// "JSON document containing the four internal maps (as arrays of
// [key, value])". Load only needs by_file and refs_by_target to rebuild
// an equivalent in-memory Index — by_term and refs_by_file are fully
// derived from those two (alias seeding and reverse-file indexing are
// deterministic functions of them) — but all four are still written so
// the on-disk document matches the maps' real shape.
type fileBucket struct {
	Key   string                    `json:"key"`
	Value []curatortypes.Definition `json:"value"`
}

type refBucket struct {
	Key   string                         `json:"key"`
	Value []curatortypes.CrossReference `json:"value"`
}

type snapshot struct {
	Version      int         `json:"version"`
	ByFile       []fileBucket `json:"by_file"`
	ByTerm       []fileBucket `json:"by_term"`
	RefsByTarget []refBucket  `json:"refs_by_target"`
	RefsByFile   []refBucket  `json:"refs_by_file"`
}

// termCount is one entry of a summary's top_terms list.
type termCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// summary is written instead of snapshot once the index crosses
// LargeIndexThreshold entries, per spec.md §4.F's large_index_summary
// shape.
type summary struct {
	Type      string      `json:"type"`
	Stats     Stats       `json:"stats"`
	Timestamp string      `json:"timestamp"`
	TopTerms  []termCount `json:"top_terms"`
	FileCount int         `json:"file_count"`
}

const summaryTopTermsLimit = 100

// Save persists the index to path, falling back to a summary once the
// index is larger than LargeIndexThreshold entries.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	stats := Stats{}
	for _, defs := range idx.byFile {
		stats.TotalEntries += len(defs)
	}
	stats.TotalFiles = len(idx.byFile)

	var data []byte
	var err error
	if stats.TotalEntries > LargeIndexThreshold {
		data, err = json.MarshalIndent(summary{
			Type:      "large_index_summary",
			Stats:     stats,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			TopTerms:  topTerms(idx, summaryTopTermsLimit),
			FileCount: stats.TotalFiles,
		}, "", "  ")
	} else {
		data, err = json.MarshalIndent(buildSnapshot(idx), "", "  ")
	}
	if err != nil {
		return curatorerrors.NewPersistIndexError(path, err)
	}
	if err := persist.AtomicWrite(path, data); err != nil {
		return curatorerrors.NewPersistIndexError(path, err)
	}
	return nil
}

func buildSnapshot(idx *Index) snapshot {
	snap := snapshot{Version: 1}
	for file, entries := range idx.byFile {
		defs := make([]curatortypes.Definition, len(entries))
		for i, e := range entries {
			defs[i] = *e.def
		}
		snap.ByFile = append(snap.ByFile, fileBucket{Key: file, Value: defs})
	}
	for term, entries := range idx.byTerm {
		defs := make([]curatortypes.Definition, len(entries))
		for i, e := range entries {
			defs[i] = *e.def
		}
		snap.ByTerm = append(snap.ByTerm, fileBucket{Key: term, Value: defs})
	}
	for target, refs := range idx.refsByTarget {
		out := make([]curatortypes.CrossReference, len(refs))
		for i, r := range refs {
			out[i] = *r
		}
		snap.RefsByTarget = append(snap.RefsByTarget, refBucket{Key: target, Value: out})
	}
	for file, refs := range idx.refsByFile {
		out := make([]curatortypes.CrossReference, len(refs))
		for i, r := range refs {
			out[i] = *r
		}
		snap.RefsByFile = append(snap.RefsByFile, refBucket{Key: file, Value: out})
	}
	return snap
}

// topTerms returns the n terms with the most by_term bucket entries,
// used only for the large-index summary.
func topTerms(idx *Index, n int) []termCount {
	counts := make([]termCount, 0, len(idx.byTerm))
	for term, bucket := range idx.byTerm {
		counts = append(counts, termCount{Term: term, Count: len(bucket)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Term < counts[j].Term
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Load replaces the index's contents with the snapshot at path. Loading
// a summary document is rejected: a summary means "no persisted full
// index", per spec.md §4.F, and the caller must rebuild instead.
func (idx *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return curatorerrors.NewPersistIndexError(path, err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Type == "large_index_summary" {
		return curatorerrors.NewPersistIndexError(path, errSummaryNotReloadable)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return curatorerrors.NewPersistIndexError(path, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byFile = make(map[string][]*entry)
	idx.byTerm = make(map[string][]*entry)
	idx.refsByTarget = make(map[string][]*curatortypes.CrossReference)
	idx.refsByFile = make(map[string][]*curatortypes.CrossReference)

	// by_file is authoritative for definitions; by_term is re-derived by
	// addLocked's alias seeding rather than trusted from the document.
	for _, bucket := range snap.ByFile {
		for _, d := range bucket.Value {
			idx.addLocked(d)
		}
	}
	// refs_by_target is authoritative for references; refs_by_file is
	// re-derived from each reference's From.File.
	for _, bucket := range snap.RefsByTarget {
		for _, r := range bucket.Value {
			stored := r
			idx.refsByTarget[r.TargetTerm] = append(idx.refsByTarget[r.TargetTerm], &stored)
			idx.refsByFile[r.From.File] = append(idx.refsByFile[r.From.File], &stored)
		}
	}
	return nil
}
