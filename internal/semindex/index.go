// Package semindex is the in-memory multi-map semantic index: it stores
// Definitions and CrossReferences, answers searches and impact queries,
// and serializes/deserializes itself (spec.md §4.F).
//
// Readers and the single writer are coordinated with a sync.RWMutex: an
// update builds its changes against the live maps under Lock, which is
// the same atomic-swap discipline spec.md §5 describes, simplified to a
// single guarded structure rather than a swapped root handle — simpler
// to reason about and equally race-free for this module's scale.
package semindex

import (
	"sync"

	"github.com/codecurator/semindex/internal/curatortypes"
)

type entry struct {
	def  *curatortypes.Definition
	keys []string // every by_term bucket this entry was inserted into
}

// Index is the four-map semantic index described in spec.md §4.F.
type Index struct {
	mu sync.RWMutex

	byFile        map[string][]*entry
	byTerm        map[string][]*entry
	refsByTarget  map[string][]*curatortypes.CrossReference
	refsByFile    map[string][]*curatortypes.CrossReference
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		byFile:       make(map[string][]*entry),
		byTerm:       make(map[string][]*entry),
		refsByTarget: make(map[string][]*curatortypes.CrossReference),
		refsByFile:   make(map[string][]*curatortypes.CrossReference),
	}
}

// Add inserts a Definition, seeding its partial-match aliases per
// spec.md §4.F. An add of a term already present at the same (file,line)
// does not double-count: the dedup key (term, line) is enforced within
// a file's bucket before insertion.
func (idx *Index) Add(def curatortypes.Definition) {
	def.Location.NormalizeFile()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addLocked(def)
}

func (idx *Index) addLocked(def curatortypes.Definition) {
	for _, e := range idx.byFile[def.Location.File] {
		if e.def.Key() == def.Key() {
			return // already present at this (term, line)
		}
	}

	stored := def
	e := &entry{def: &stored}

	normalized := curatortypes.NormalizeTerm(def.Term)
	e.keys = append(e.keys, normalized)
	idx.byTerm[normalized] = append(idx.byTerm[normalized], e)

	for _, alias := range aliasesFor(def.Term, normalized) {
		e.keys = append(e.keys, alias)
		idx.byTerm[alias] = append(idx.byTerm[alias], e)
	}

	idx.byFile[def.Location.File] = append(idx.byFile[def.Location.File], e)
}

// AddReference inserts a CrossReference, indexed by both target_term
// (forward) and from.file (reverse), per invariant 2.
func (idx *Index) AddReference(ref curatortypes.CrossReference) {
	ref.From.NormalizeFile()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	stored := ref
	idx.refsByTarget[ref.TargetTerm] = append(idx.refsByTarget[ref.TargetTerm], &stored)
	idx.refsByFile[ref.From.File] = append(idx.refsByFile[ref.From.File], &stored)
}

// RemoveFile deletes every Definition and CrossReference belonging to
// file, pruning any term/target bucket left empty (invariant 1).
func (idx *Index) RemoveFile(file string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeFileLocked(file)
}

func (idx *Index) removeFileLocked(file string) {
	for _, e := range idx.byFile[file] {
		for _, key := range e.keys {
			bucket := idx.byTerm[key]
			filtered := bucket[:0]
			for _, be := range bucket {
				if be != e {
					filtered = append(filtered, be)
				}
			}
			if len(filtered) == 0 {
				delete(idx.byTerm, key)
			} else {
				idx.byTerm[key] = filtered
			}
		}
	}
	delete(idx.byFile, file)

	for _, ref := range idx.refsByFile[file] {
		bucket := idx.refsByTarget[ref.TargetTerm]
		filtered := bucket[:0]
		for _, r := range bucket {
			if r != ref {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			delete(idx.refsByTarget, ref.TargetTerm)
		} else {
			idx.refsByTarget[ref.TargetTerm] = filtered
		}
	}
	delete(idx.refsByFile, file)
}

// ReplaceFile is the "remove then add" lifecycle operation spec.md §3
// mandates for file-level updates: it removes every prior definition and
// reference for file, then inserts the new ones, all under one lock.
func (idx *Index) ReplaceFile(file string, defs []curatortypes.Definition, refs []curatortypes.CrossReference) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeFileLocked(file)
	for _, d := range defs {
		d.Location.NormalizeFile()
		idx.addLocked(d)
	}
	for _, r := range refs {
		r.From.NormalizeFile()
		stored := r
		idx.refsByTarget[r.TargetTerm] = append(idx.refsByTarget[r.TargetTerm], &stored)
		idx.refsByFile[r.From.File] = append(idx.refsByFile[r.From.File], &stored)
	}
}

// Clear drops all in-memory state.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byFile = make(map[string][]*entry)
	idx.byTerm = make(map[string][]*entry)
	idx.refsByTarget = make(map[string][]*curatortypes.CrossReference)
	idx.refsByFile = make(map[string][]*curatortypes.CrossReference)
}

// Stats reports total entries and file count.
type Stats struct {
	TotalEntries int `json:"total_entries"`
	TotalFiles   int `json:"total_files"`
}

func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	total := 0
	for _, defs := range idx.byFile {
		total += len(defs)
	}
	return Stats{TotalEntries: total, TotalFiles: len(idx.byFile)}
}

// References returns every CrossReference whose target_term is term.
func (idx *Index) References(term string) []curatortypes.CrossReference {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	refs := idx.refsByTarget[term]
	out := make([]curatortypes.CrossReference, len(refs))
	for i, r := range refs {
		out[i] = *r
	}
	return out
}

// allDefinitions returns every stored Definition (callers must hold at
// least RLock).
func (idx *Index) allDefinitions() []*curatortypes.Definition {
	var out []*curatortypes.Definition
	for _, defs := range idx.byFile {
		for _, e := range defs {
			out = append(out, e.def)
		}
	}
	return out
}
