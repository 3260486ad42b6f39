package jsbind

import (
	"sync/atomic"
)

// Protected is a strong reference to an engine value, keeping it from being
// collected while any handle to it is alive.
//
// Handles share ownership: [Protected.Clone] adds a handle, and the value is
// unpinned once every handle has been released. Release is idempotent per
// handle. A nil *Protected is an empty reference.
type Protected[V any] struct {
	state    *protectedState[V]
	released atomic.Bool
}

type protectedState[V any] struct {
	ctx       Context
	value     V
	unprotect func()
	refs      atomic.Int64
}

// Protect pins value, returning the first handle to it.
func Protect[V any](ctx Context, value V) *Protected[V] {
	s := &protectedState[V]{
		ctx:       ctx,
		value:     value,
		unprotect: ctx.Protect(value),
	}
	s.refs.Store(1)
	return &Protected[V]{state: s}
}

// Value returns the referenced value. It remains valid to call after
// Release, though the value is then no longer pinned by this handle.
func (p *Protected[V]) Value() (v V) {
	if p == nil {
		return v
	}
	return p.state.value
}

// Clone returns a new handle sharing ownership of the value.
func (p *Protected[V]) Clone() *Protected[V] {
	if p == nil {
		return nil
	}
	p.state.refs.Add(1)
	return &Protected[V]{state: p.state}
}

// Release drops this handle's ownership.
func (p *Protected[V]) Release() {
	if p == nil || !p.released.CompareAndSwap(false, true) {
		return
	}
	if p.state.refs.Add(-1) == 0 {
		p.state.unprotect()
	}
}

// Released reports whether this handle has been released.
func (p *Protected[V]) Released() bool {
	return p == nil || p.released.Load()
}

// Same reports whether p and other reference the same engine value, by
// identity.
func (p *Protected[V]) Same(other *Protected[V]) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.state == other.state {
		return true
	}
	return p.state.ctx.SameValue(p.state.value, other.state.value)
}

// SameValue reports whether p references v, by identity.
func (p *Protected[V]) SameValue(v V) bool {
	if p == nil {
		return false
	}
	return p.state.ctx.SameValue(p.state.value, v)
}
