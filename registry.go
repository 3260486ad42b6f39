package jsbind

// Registry memoizes the engine-specific class handle of each [Binding], for
// one engine instance. Handles are created lazily, superclass first; the
// parent of a root class is the zero H, standing for "no class".
//
// An entry never changes once created. Failed creations are not cached.
// Registries are not safe for concurrent use, as they belong to a single
// engine thread.
type Registry[H any] struct {
	create  func(b *Binding, parent H) (H, error)
	entries map[*Binding]H
	order   []*Binding
}

// NewRegistry creates a registry building handles with create.
func NewRegistry[H any](create func(b *Binding, parent H) (H, error)) *Registry[H] {
	return &Registry[H]{
		create:  create,
		entries: make(map[*Binding]H),
	}
}

// Resolve returns the handle of b, creating it and any missing ancestors.
// A nil b resolves to the zero H.
func (r *Registry[H]) Resolve(b *Binding) (h H, err error) {
	if b == nil {
		return h, nil
	}
	if h, ok := r.entries[b]; ok {
		return h, nil
	}
	parent, err := r.Resolve(b.parent)
	if err != nil {
		return h, err
	}
	h, err = r.create(b, parent)
	if err != nil {
		return h, err
	}
	r.entries[b] = h
	r.order = append(r.order, b)
	return h, nil
}

// Lookup returns the handle of b, if it has been resolved.
func (r *Registry[H]) Lookup(b *Binding) (H, bool) {
	h, ok := r.entries[b]
	return h, ok
}

// Len returns the number of resolved classes.
func (r *Registry[H]) Len() int { return len(r.entries) }

// Bindings returns the resolved classes, in resolution order.
func (r *Registry[H]) Bindings() []*Binding {
	return append([]*Binding(nil), r.order...)
}
