package notes

import "sync"

// Registry hands out one Store per owner so the server can keep a
// snapshot for every session.
type Registry struct {
	backend Backend
	opts    Options

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(backend Backend, opts Options) *Registry {
	return &Registry{
		backend: backend,
		opts:    opts,
		stores:  make(map[string]*Store),
	}
}

func (r *Registry) For(owner string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[owner]
	if !ok {
		s = NewStore(r.backend, owner, r.opts)
		r.stores[owner] = s
	}
	return s
}
