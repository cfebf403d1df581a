// Package groups implements spec.md §4.H's concept groups: named,
// user-editable term-list bundles queried as a logical OR by
// internal/query's SearchGroup. New code — small and with no direct
// teacher precedent, justified in SPEC_FULL.md's dependency section.
package groups

import (
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
)

// Group is spec.md §4.H's `{ name, description, emoji?, terms }` shape.
type Group struct {
	Name        string
	Description string
	Emoji       string
	Terms       []string
}

// Registry holds the built-in default groups plus any project-level
// overrides, which replace a default of the same name entirely (not
// merged) — per §4.H: "User-defined groups in the project config
// override defaults by name."
type Registry struct {
	mu     sync.RWMutex
	groups map[string]Group
}

// NewRegistry builds a registry from the built-in defaults, with
// overrides applied on top by name. Pass nil for no overrides.
func NewRegistry(overrides map[string]Group) *Registry {
	r := &Registry{groups: map[string]Group{}}
	for _, g := range defaultGroups {
		r.groups[g.Name] = g
	}
	for name, g := range overrides {
		g.Name = name
		r.groups[name] = g
	}
	return r
}

// List returns every group, sorted by name for stable CLI output.
func (r *Registry) List() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TermsFor returns a group's term list, or nil if name is unknown.
func (r *Registry) TermsFor(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[name]
	if !ok {
		return nil
	}
	return g.Terms
}

// Exists reports whether name names a known group.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.groups[name]
	return ok
}

// Add registers or replaces a group, for the CLI's `group add` and
// config-driven customGroups loading.
func (r *Registry) Add(g Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.Name] = g
}

// Remove deletes a group by name. Removing a name that shadows a
// built-in default simply drops the override; callers that want the
// default reinstated should rebuild the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, name)
}

// Suggest returns the closest known group name to name by
// Jaro-Winkler similarity, for QueryError's "did you mean" hint. It
// returns "" if the registry is empty or name itself is known.
func (r *Registry) Suggest(name string) string {
	r.mu.RLock()
	names := make([]string, 0, len(r.groups))
	for n := range r.groups {
		names = append(names, n)
	}
	r.mu.RUnlock()

	if len(names) == 0 {
		return ""
	}
	best, err := edlib.FuzzySearch(strings.ToLower(name), names, edlib.JaroWinkler)
	if err != nil {
		return ""
	}
	return best
}
