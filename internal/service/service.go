// Package service is the façade spec.md §6 describes as the "core
// library surface": it wires discovery, change detection, the stream
// batcher, language extraction, the semantic index, and persistence
// into the single-writer/many-reader update cycle spec.md §5 requires.
// Grounded on the teacher's internal/indexing/master_index.go (the
// long-lived owner of one project's index) and internal/server/server.go
// (one service instance per project path), both simplified down to this
// module's scale: one mutex serializes updates, one singleflight.Group
// collapses overlapping update requests into the in-flight one instead
// of the teacher's bespoke IndexLockManager/atomic-flag machinery.
package service

import (
	"context"
	"log"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/codecurator/semindex/internal/batch"
	"github.com/codecurator/semindex/internal/changedetect"
	"github.com/codecurator/semindex/internal/curatorconfig"
	"github.com/codecurator/semindex/internal/curatorerrors"
	"github.com/codecurator/semindex/internal/curatortypes"
	"github.com/codecurator/semindex/internal/discovery"
	"github.com/codecurator/semindex/internal/extract"
	"github.com/codecurator/semindex/internal/groups"
	"github.com/codecurator/semindex/internal/persist"
	"github.com/codecurator/semindex/internal/query"
	"github.com/codecurator/semindex/internal/semindex"
)

// IndexRelPath is where the serialized index lives under the project's
// persist.Dir, per spec.md §4.I.
const IndexRelPath = "semantic-index.json"

// Performance is the subset of SPEC_FULL.md's performance knobs the
// service itself reads; ParallelFileWorkers bounds how many files are
// extracted concurrently within one content batch.
type Performance struct {
	ParallelFileWorkers int
}

func (p Performance) workers() int {
	if p.ParallelFileWorkers > 0 {
		return p.ParallelFileWorkers
	}
	return 4
}

// Service is one project's long-lived index owner.
type Service struct {
	Root        string
	Extractors  *extract.Registry
	Groups      *groups.Registry
	Config      curatorconfig.Config
	Performance Performance

	mu     sync.Mutex // serializes updates; see EnsureFresh
	sf     singleflight.Group
	idx    *semindex.Index
	cache  *changedetect.Cache
	loaded bool
}

// New builds a Service for root. extractors/groupReg may be nil, in
// which case extract.Default() and an empty groups.Registry are used.
func New(root string, extractors *extract.Registry, groupReg *groups.Registry, cfg curatorconfig.Config, perf Performance) *Service {
	if extractors == nil {
		extractors = extract.Default()
	}
	if groupReg == nil {
		groupReg = groups.NewRegistry(cfg.Groups())
	}
	return &Service{
		Root:        root,
		Extractors:  extractors,
		Groups:      groupReg,
		Config:      cfg,
		Performance: perf,
	}
}

func (s *Service) indexPath() string {
	return filepath.Join(persist.Dir(s.Root), IndexRelPath)
}

// index returns the live index, creating an empty one if nothing has
// been loaded yet (so read-only calls before the first EnsureFresh
// don't panic — they just see an empty index, per spec.md §6's "search
// before any index exists" implicit contract).
func (s *Service) index() *semindex.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx == nil {
		s.idx = semindex.New()
	}
	return s.idx
}

// EnsureFresh loads or builds the index, applies incremental updates,
// and persists if anything changed. It is idempotent: concurrent callers
// collapse onto the one in-flight update via singleflight, per spec.md
// §5's "overlapping update requests join the in-flight operation rather
// than duplicating work."
func (s *Service) EnsureFresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("update", func() (any, error) {
		return nil, s.update(ctx)
	})
	return err
}

type fileUpdate struct {
	defs []curatortypes.Definition
	refs []curatortypes.CrossReference
}

// update runs one full discover -> classify -> batch -> extract cycle
// and commits it atomically at the end: per-file extraction results
// accumulate in a local map and are only applied to the live index
// (via ReplaceFile) after every batch has been processed without
// cancellation, so a cancelled update leaves s.idx untouched, per
// spec.md §5's cancellation guarantee.
func (s *Service) update(ctx context.Context) error {
	s.mu.Lock()
	if s.idx == nil {
		s.idx = semindex.New()
	}
	if !s.loaded {
		_ = s.idx.Load(s.indexPath()) // missing/summary index just means "rebuild"; not fatal
		s.cache = changedetect.Load(s.Root)
		s.loaded = true
	}
	idx := s.idx
	cache := s.cache
	s.mu.Unlock()

	discovered, err := discovery.Walk(discovery.Options{
		Root:    s.Root,
		Exclude: s.Config.Exclude,
		Include: s.Config.Include,
	})
	if err != nil {
		return err // DiscoveryError: root unreadable, fatal for this operation
	}

	cls, deletedPaths := cache.Classify(s.Root, discovered)
	pending := map[string]fileUpdate{}
	var pendingMu sync.Mutex
	var processedStats map[string]batch.Stat
	var terminalDeleted []string

	for b := range batch.Stream(batch.DefaultOptions(s.Root), changedetect.ToBatchClassifications(cls), deletedPaths) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.Kind == batch.KindFinal {
			processedStats = b.Stats
			terminalDeleted = b.Deleted
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Performance.workers())
		for path, content := range b.Files {
			path, content := path, content
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				extractor := s.Extractors.ForContent(path, []byte(content))
				if extractor == nil {
					return nil
				}
				res, err := extractor.Extract(path, []byte(content))
				if err != nil {
					log.Printf("semindex: %v", curatorerrors.NewExtractError(path, extractor.Name(), err))
					return nil // skip this file's contribution, not fatal
				}
				pendingMu.Lock()
				pending[path] = fileUpdate{defs: res.Definitions, refs: res.References}
				pendingMu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	changed := len(pending) > 0 || len(terminalDeleted) > 0
	for path, fu := range pending {
		idx.ReplaceFile(path, fu.defs, fu.refs)
	}
	for _, path := range terminalDeleted {
		idx.RemoveFile(path)
	}

	// Both writes are gated on changed: per spec.md §8, running
	// EnsureFresh twice with no file changes performs zero writes. The
	// terminal batch always carries the complete processedStats map
	// even when nothing changed, so calling cache.Update unconditionally
	// would rewrite an identical stats cache to disk on every call.
	if changed {
		if err := cache.Update(s.Root, processedStats, terminalDeleted); err != nil {
			// PersistError (stats): warn and continue; next run rebuilds fully.
			log.Printf("semindex: warning: %v", err)
		}
		if err := idx.Save(s.indexPath()); err != nil {
			return curatorerrors.NewPersistIndexError(s.indexPath(), err)
		}
	}
	return nil
}

// Search implements spec.md §6's search(query, options).
func (s *Service) Search(raw string, opts semindex.Options) ([]semindex.Result, error) {
	return query.New(s.index(), s.Groups).Search(raw, opts)
}

// SearchGroup implements spec.md §6's search_group(name).
func (s *Service) SearchGroup(name string, opts semindex.Options) ([]semindex.Result, error) {
	return query.New(s.index(), s.Groups).SearchGroup(name, opts)
}

// List returns every definition matching opts' kind/file filters, per
// spec.md §4.F's empty-query special case ("every definition at
// 0.50"). Unlike Search, this bypasses the pattern algebra entirely —
// an empty string isn't valid query syntax (internal/query's parser
// rejects it), it's a distinct index-level listing mode — so callers
// that just want "what's in this file" (e.g. the changes CLI command)
// use List instead of Search("", opts).
func (s *Service) List(opts semindex.Options) []semindex.Result {
	return s.index().Search("", opts)
}

// References implements spec.md §6's references(term).
func (s *Service) References(term string) []curatortypes.CrossReference {
	return s.index().References(term)
}

// Impact implements spec.md §6's impact(term).
func (s *Service) Impact(term string) semindex.Impact {
	return s.index().Impact(term)
}

// Stats implements spec.md §6's stats().
func (s *Service) Stats() semindex.Stats {
	return s.index().Stats()
}

// Clear implements spec.md §6's clear(): drops in-memory state,
// including the change-detector cache, so the next EnsureFresh performs
// a genuine full rebuild rather than reloading stale disk state.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = semindex.New()
	s.cache = &changedetect.Cache{}
	s.loaded = true
}

// RemoveFile implements spec.md §6's remove_file(path): updates the
// in-memory maps and persists the result. Per §7.6, a persistence
// failure here surfaces rather than warns — the in-memory index is
// still valid, but the caller learns the on-disk copy is now stale.
func (s *Service) RemoveFile(path string) error {
	idx := s.index()
	idx.RemoveFile(path)
	if err := idx.Save(s.indexPath()); err != nil {
		return curatorerrors.NewPersistIndexError(s.indexPath(), err)
	}
	return nil
}
