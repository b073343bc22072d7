package sources

import (
	"sort"
	"sync"

	"atlas-backend/application/ports"
)

// Registry is the name-to-source lookup table used when resolving a
// query's source list. Unknown names resolve to nothing rather than an
// error; a request naming a retired source still runs.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]ports.ExternalSource
}

// NewRegistry creates a registry over the given sources
func NewRegistry(sources ...ports.ExternalSource) *Registry {
	r := &Registry{
		sources: make(map[string]ports.ExternalSource, len(sources)),
	}
	for _, s := range sources {
		r.sources[s.Name()] = s
	}
	return r
}

var _ ports.SourceRegistry = (*Registry)(nil)

// Add registers a source, replacing any source of the same name
func (r *Registry) Add(s ports.ExternalSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Resolve returns the sources for the given names, skipping unknown
// names and duplicates while preserving request order
func (r *Registry) Resolve(names []string) []ports.ExternalSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.ExternalSource, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if s, ok := r.sources[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Names lists every registered source name in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
