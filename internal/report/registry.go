package report

import "sync"

// Registry holds the template catalog. Registration normally happens once at
// process start; the lock exists so late registration cannot race readers.
//
// Register does not inspect the skeleton: malformed fragments surface at
// assembly time. Registering an id twice replaces the earlier template
// (last registration wins).
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Template
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Template)}
}

// Register adds or replaces a template by id.
func (r *Registry) Register(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = t
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok
}

// ListForRole returns all templates whose role gate contains role,
// in registration order.
func (r *Registry) ListForRole(role string) []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Template
	for _, id := range r.order {
		if t := r.byID[id]; t.AllowsRole(role) {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct category labels across all templates.
// Order is unspecified.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range r.byID {
		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			out = append(out, t.Category)
		}
	}
	return out
}

// Len reports the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
