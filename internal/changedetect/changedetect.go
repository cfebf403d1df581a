// Package changedetect maintains the persisted path->(size,mtime) stats
// cache and classifies each discovered file as unchanged, changed or
// deleted (spec.md §4.C).
package changedetect

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/codecurator/semindex/internal/batch"
	"github.com/codecurator/semindex/internal/curatorerrors"
)

// CacheRelPath is where the stats cache lives under the project root.
const CacheRelPath = ".curator/semantic/statscache.json"

// Cache is the persisted path -> (size, mtime) map. A missing or
// corrupt cache forces a full rebuild (every path classifies as new).
type Cache struct {
	entries map[string]batch.Stat
}

// Load reads the cache at root/CacheRelPath. A missing or corrupt file
// yields an empty, valid cache rather than an error — the cache is
// advisory.
func Load(root string) *Cache {
	data, err := os.ReadFile(filepath.Join(root, CacheRelPath))
	if err != nil {
		return &Cache{entries: map[string]batch.Stat{}}
	}
	var entries map[string]batch.Stat
	if err := json.Unmarshal(data, &entries); err != nil {
		return &Cache{entries: map[string]batch.Stat{}}
	}
	return &Cache{entries: entries}
}

// Classification is the outcome of comparing one discovered path
// against the cache.
type Classification struct {
	Path      string
	Unchanged bool
	Changed   bool // covers both "changed" and "new"
}

// Classify compares discovered (the current Walk result) against the
// cache and returns one Classification per discovered path, plus the
// set of deleted paths (present in the cache, absent from discovered).
func (c *Cache) Classify(root string, discovered []string) ([]Classification, []string) {
	seen := make(map[string]bool, len(discovered))
	out := make([]Classification, 0, len(discovered))

	for _, rel := range discovered {
		seen[rel] = true
		prev, ok := c.entries[rel]
		if !ok {
			out = append(out, Classification{Path: rel, Changed: true})
			continue
		}

		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil {
			out = append(out, Classification{Path: rel, Changed: true})
			continue
		}

		if info.Size() != prev.Size {
			out = append(out, Classification{Path: rel, Changed: true})
			continue
		}
		if sameMtime(info.ModTime(), prev.Mtime) {
			out = append(out, Classification{Path: rel, Unchanged: true})
			continue
		}
		out = append(out, Classification{Path: rel, Changed: true})
	}

	var deleted []string
	for rel := range c.entries {
		if !seen[rel] {
			deleted = append(deleted, rel)
		}
	}
	return out, deleted
}

func sameMtime(a, b time.Time) bool {
	return a.Equal(b)
}

// ToBatchClassifications adapts Classify's output to the shape
// internal/batch.Stream expects.
func ToBatchClassifications(cls []Classification) []batch.Classification {
	out := make([]batch.Classification, len(cls))
	for i, c := range cls {
		out[i] = batch.Classification{Path: c.Path, Changed: c.Changed, Unchanged: c.Unchanged}
	}
	return out
}

// Update replaces the cache's entries with processedStats (the complete
// map the terminal batch carried) and removes any deleted path, then
// persists atomically. This is the single write-back per update that
// spec.md §4.C requires.
func (c *Cache) Update(root string, processedStats map[string]batch.Stat, deleted []string) error {
	if c.entries == nil {
		c.entries = map[string]batch.Stat{}
	}
	for p, s := range processedStats {
		c.entries[p] = s
	}
	for _, p := range deleted {
		delete(c.entries, p)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return curatorerrors.NewPersistStatsError(CacheRelPath, err)
	}

	path := filepath.Join(root, CacheRelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return curatorerrors.NewPersistStatsError(path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".statscache-*.tmp")
	if err != nil {
		return curatorerrors.NewPersistStatsError(path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return curatorerrors.NewPersistStatsError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return curatorerrors.NewPersistStatsError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return curatorerrors.NewPersistStatsError(path, err)
	}
	return nil
}

// Entries exposes a read-only copy, mostly for tests and diagnostics.
func (c *Cache) Entries() map[string]batch.Stat {
	out := make(map[string]batch.Stat, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
