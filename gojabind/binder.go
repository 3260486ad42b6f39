package gojabind

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
)

// Binder materializes classes in one [goja.Runtime], and implements
// [jsbind.Context] over it.
//
// A Binder must only be used from the runtime's goroutine.
type Binder struct {
	runtime   *goja.Runtime
	scheduler jsbind.Scheduler
	logger    *logiface.Logger[logiface.Event]
	classes   *jsbind.Registry[*boundClass]
	pins      map[uint64]goja.Value
	nextPin   uint64
}

var _ jsbind.Context = (*Binder)(nil)

// New creates a [Binder] for runtime.
func New(runtime *goja.Runtime, opts ...Option) (*Binder, error) {
	if runtime == nil {
		panic("gojabind: runtime must not be nil")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("gojabind: %w", err)
	}
	x := &Binder{
		runtime:   runtime,
		scheduler: cfg.scheduler,
		logger:    cfg.logger,
		pins:      make(map[uint64]goja.Value),
	}
	x.classes = jsbind.NewRegistry(x.materialize)
	return x, nil
}

// Runtime returns the runtime the binder was created for.
func (x *Binder) Runtime() *goja.Runtime { return x.runtime }

// Constructor returns the constructor of class, materializing it (and its
// superclasses) on first use.
func (x *Binder) Constructor(class jsbind.Class) (*goja.Object, error) {
	c, err := x.resolve(class)
	if err != nil {
		return nil, err
	}
	return c.constructor, nil
}

// Prototype returns the prototype of instances of class.
func (x *Binder) Prototype(class jsbind.Class) (*goja.Object, error) {
	c, err := x.resolve(class)
	if err != nil {
		return nil, err
	}
	return c.prototype, nil
}

// Create returns a new instance of class owning native, without running the
// class's constructor. The native value must be assignable to the type of
// the class's descriptor.
func (x *Binder) Create(class jsbind.Class, native any) (*goja.Object, error) {
	c, err := x.resolve(class)
	if err != nil {
		return nil, err
	}
	if native == nil {
		return nil, fmt.Errorf("gojabind: create %s: %w", c.binding.Name(), jsbind.ErrNoNativeObject)
	}
	obj, _ := x.allocate(c, c.prototype, native)
	return obj, nil
}

// Define sets the constructor of each class as a property of target, named
// after the class.
func (x *Binder) Define(target *goja.Object, classes ...jsbind.Class) error {
	for _, class := range classes {
		ctor, err := x.Constructor(class)
		if err != nil {
			return err
		}
		if err := target.Set(class.ClassName(), ctor); err != nil {
			return fmt.Errorf("gojabind: define %s: %w", class.ClassName(), err)
		}
	}
	return nil
}

// Unwrap returns the state of v, if it is an instance of a bound class.
func (x *Binder) Unwrap(v goja.Value) (*jsbind.Wrap, bool) {
	inst, ok := instanceOf(v)
	if !ok || inst.binder != x {
		return nil, false
	}
	return inst.wrap, true
}

// IsInstance reports whether v is an instance of class, or of one of its
// subclasses.
func (x *Binder) IsInstance(v goja.Value, class jsbind.Class) bool {
	w, ok := x.Unwrap(v)
	if !ok {
		return false
	}
	b, err := class.Bind()
	if err != nil {
		return false
	}
	return w.Binding().IsA(b)
}

// Native returns the native object owned by v, which must be a constructed,
// unfinalized instance of a bound class.
func Native[T any](v goja.Value) (T, bool) {
	inst, ok := instanceOf(v)
	if !ok {
		var zero T
		return zero, false
	}
	native, ok := inst.wrap.Native().(T)
	return native, ok
}

// Pinned returns the number of values currently protected through
// [Binder.Protect].
func (x *Binder) Pinned() int { return len(x.pins) }

func (x *Binder) resolve(class jsbind.Class) (*boundClass, error) {
	if class == nil {
		return nil, errors.New("gojabind: nil class")
	}
	b, err := class.Bind()
	if err != nil {
		return nil, err
	}
	return x.classes.Resolve(b)
}
