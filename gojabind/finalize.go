package gojabind

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
)

// Finalize runs the finalizers of obj's class chain, leaf first, and
// detaches its native object. Later property accesses fail with
// [jsbind.ErrNoNativeObject]. Finalizing an instance again has no effect.
//
// The returned error joins the panics of failed finalizers. They have also
// been logged.
func (x *Binder) Finalize(obj *goja.Object) error {
	w, ok := x.Unwrap(obj)
	if !ok {
		return fmt.Errorf("gojabind: finalize: %w", jsbind.ErrIncompatibleReceiver)
	}
	return x.finalize(w)
}

func (x *Binder) finalize(w *jsbind.Wrap) error {
	err := w.Finalize()
	if err != nil {
		x.logger.Err().
			Str(`class`, w.Binding().Name()).
			Err(err).
			Log(`gojabind: finalizer failed`)
	}
	return err
}

// collected is the cleanup of instances reclaimed by the garbage collector.
// It runs on an arbitrary goroutine, so defers to the scheduler.
func (x *Binder) collected(w *jsbind.Wrap) {
	if !x.scheduler.Schedule(func() { _ = x.finalize(w) }) {
		x.logger.Warning().
			Str(`class`, w.Binding().Name()).
			Log(`gojabind: finalization of collected instance dropped`)
	}
}
