package breaker

import (
	"sync"
)

// Registry owns one Breaker per operation name.
type Registry struct {
	mu       sync.Mutex
	defaults Config
	items    map[string]*Breaker
}

func NewRegistry(defaults Config) *Registry {
	return &Registry{defaults: defaults, items: make(map[string]*Breaker)}
}

// Get returns the breaker for name, creating it from the registry defaults.
func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.items[name]; ok {
		return b
	}
	cfg := r.defaults
	cfg.Name = name
	b := New(cfg)
	r.items[name] = b
	return b
}

// Snapshot reports every breaker's state and window, keyed by name.
func (r *Registry) Snapshot() map[string]any {
	r.mu.Lock()
	items := make(map[string]*Breaker, len(r.items))
	for k, v := range r.items {
		items[k] = v
	}
	r.mu.Unlock()

	out := make(map[string]any, len(items))
	for name, b := range items {
		c := b.Counts()
		out[name] = map[string]any{
			"state":    b.State().String(),
			"calls":    c.Calls,
			"failures": c.Failures,
		}
	}
	return out
}
