package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/document"
)

// Registry maps instance ids to instances. It is safe for concurrent use;
// the instances it hands out are not.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	limits    Limits
}

// NewRegistry creates an empty registry. New instances start with limits.
func NewRegistry(limits Limits) *Registry {
	return &Registry{
		instances: make(map[string]*Instance),
		limits:    limits.normalize(),
	}
}

// Create registers a new instance for surface, seeded with its content.
func (r *Registry) Create(id string, surface document.Surface, now time.Time) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[id]; exists {
		return nil, fmt.Errorf("%q: %w", id, ErrInstanceExists)
	}
	inst := newInstance(id, surface, r.limits, now)
	r.instances[id] = inst
	return inst, nil
}

// Get returns the instance for id.
func (r *Registry) Get(id string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	return inst, ok
}

// Dispose removes the instance for id, clears its stacks and drops its
// surface subscription.
func (r *Registry) Dispose(id string) (*Instance, error) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	if ok {
		delete(r.instances, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrInstanceNotFound)
	}
	inst.release()
	return inst, nil
}

// DisposeAll removes and releases every instance.
func (r *Registry) DisposeAll() []*Instance {
	r.mu.Lock()
	all := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		all = append(all, inst)
	}
	r.instances = make(map[string]*Instance)
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })
	for _, inst := range all {
		inst.release()
	}
	return all
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Limits returns the limits new instances start with.
func (r *Registry) Limits() Limits {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limits
}

// SetLimits changes the limits for new instances and returns the live
// instances so the caller can apply the limits on their goroutine.
func (r *Registry) SetLimits(l Limits) []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limits = l.normalize()
	live := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		live = append(live, inst)
	}
	return live
}
