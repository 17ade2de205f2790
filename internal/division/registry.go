package division

import "sync"

// Registry keeps one engine per owner for the server.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]*Engine)}
}

func (r *Registry) For(owner string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.engines[owner]
	if !ok {
		e = NewEngine()
		r.engines[owner] = e
	}
	return e
}
