package jsbind

// Wrap is the per-instance state of a bound object: its class, and the
// native object it exclusively owns.
//
// The native object is nil only before construction completes, after a
// failed construction, and after finalization. Engine adapters keep a Wrap
// as the back-pointer of each scripting-visible instance, and must not
// retain the instance itself from it.
type Wrap struct {
	binding   *Binding
	native    any
	finalized bool
}

// NewWrap allocates the state of an instance of b, owning native (which may
// be nil, for an instance awaiting its constructor).
func NewWrap(b *Binding, native any) *Wrap {
	return &Wrap{binding: b, native: native}
}

func (w *Wrap) Binding() *Binding { return w.binding }

// Native returns the owned native object, or nil.
func (w *Wrap) Native() any {
	if w == nil {
		return nil
	}
	return w.native
}

// Reset replaces the owned native object. It has no effect once finalized.
func (w *Wrap) Reset(native any) {
	if w.finalized {
		return
	}
	w.native = native
}

func (w *Wrap) Finalized() bool { return w.finalized }

// Finalize runs the finalizers of the class chain, leaf first, then clears
// the native object. Only the first call has any effect. Instances that never
// owned a native object skip the finalizers.
func (w *Wrap) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true
	native := w.native
	w.native = nil
	if native == nil {
		return nil
	}
	return w.binding.Finalize(native)
}
