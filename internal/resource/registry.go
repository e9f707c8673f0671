package resource

import (
	"sort"
	"sync"

	"github.com/quillcms/console/internal/catalog"
)

// Registry holds one Manager per declared collection. The catalog reloader
// swaps the set when collections.yaml changes; managers that survive a reload
// keep their cached listings.
type Registry struct {
	mu       sync.RWMutex
	managers map[string]*Manager
}

func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]*Manager)}
}

// Get returns the manager for a collection name.
func (r *Registry) Get(name string) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[name]
	return m, ok
}

// Names returns the registered collection names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns how many collections are registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.managers)
}

// Rebuild swaps the registry to match the given collections. An existing
// manager is kept (cache and all) when its collection still points at the
// same upstream path; anything else is built fresh, and managers for removed
// collections are dropped.
func (r *Registry) Rebuild(collections []*catalog.Collection, build func(*catalog.Collection) *Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]*Manager, len(collections))
	for _, col := range collections {
		if existing, ok := r.managers[col.Name]; ok && existing.Collection().Path == col.Path {
			next[col.Name] = existing
			continue
		}
		next[col.Name] = build(col)
	}
	r.managers = next
}
