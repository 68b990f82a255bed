package region

import (
	"slices"
	"sync"

	"github.com/bnema/wlregion/internal/logger"
)

// Registry owns the mapping from IDs to shared regions.
// The map is guarded by its own lock; each Region guards its own rectangles,
// so edits to unrelated regions never contend on the registry.
type Registry struct {
	mu      sync.RWMutex
	regions map[ID]*Region
	opts    []Option
}

// NewRegistry creates an empty registry. The options are applied to every
// region it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		regions: make(map[ID]*Region),
		opts:    opts,
	}
}

// Create allocates a fresh ID and an empty region for it
func (r *Registry) Create() (ID, *Region) {
	id := NextID()
	reg := New(id, r.opts...)

	r.mu.Lock()
	r.regions[id] = reg
	r.mu.Unlock()

	logger.Debugf("Region %s created", id)
	return id, reg
}

// NewDetached returns a region configured like the registry's own but not
// registered in it. Compositor-owned state such as surface damage uses it.
func (r *Registry) NewDetached() *Region {
	return New(NextID(), r.opts...)
}

// Get returns the region registered under id
func (r *Registry) Get(id ID) (*Region, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.regions[id]
	return reg, ok
}

// Destroy removes id from the registry and returns its region so callers can
// still read it. Outstanding handles stay valid.
func (r *Registry) Destroy(id ID) (*Region, bool) {
	r.mu.Lock()
	reg, ok := r.regions[id]
	if ok {
		delete(r.regions, id)
	}
	r.mu.Unlock()

	if ok {
		logger.Debugf("Region %s destroyed", id)
	}
	return reg, ok
}

// Len returns the number of registered regions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.regions)
}

// IDs returns the registered IDs in ascending order
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	ids := make([]ID, 0, len(r.regions))
	for id := range r.regions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}
