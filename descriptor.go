package jsbind

import (
	"sync"
)

type (
	// ConstructorFunc creates the native object of a new instance. This is
	// the object being constructed, already allocated in its empty state.
	ConstructorFunc[T any] func(ctx Context, this Value, args Arguments) (T, error)

	MethodFunc[T any] func(ctx Context, this Value, self T, args Arguments, ret *ReturnValue) error

	GetterFunc[T any] func(ctx Context, this Value, self T, ret *ReturnValue) error

	SetterFunc[T any] func(ctx Context, this Value, self T, value Value) error

	// IndexGetterFunc reads the element at index. Positions past the end
	// should fail with an error matching [ErrIndexOutOfRange].
	IndexGetterFunc[T any] func(ctx Context, this Value, self T, index uint32, ret *ReturnValue) error

	// IndexSetterFunc writes the element at index, reporting false if the
	// write was not handled.
	IndexSetterFunc[T any] func(ctx Context, this Value, self T, index uint32, value Value) (bool, error)

	// StringGetterFunc reads a named property. Leaving ret unset defers the
	// name to the engine.
	StringGetterFunc[T any] func(ctx Context, this Value, self T, name string, ret *ReturnValue) error

	// StringSetterFunc writes a named property, reporting false if the write
	// was not handled.
	StringSetterFunc[T any] func(ctx Context, this Value, self T, name string, value Value) (bool, error)

	// StringEnumeratorFunc lists the names served by the string accessor.
	StringEnumeratorFunc[T any] func(ctx Context, this Value, self T) ([]string, error)

	// FinalizerFunc releases a native object when its instance is
	// collected.
	FinalizerFunc[T any] func(self T)

	StaticMethodFunc func(ctx Context, this Value, args Arguments, ret *ReturnValue) error

	StaticGetterFunc func(ctx Context, this Value, ret *ReturnValue) error

	StaticSetterFunc func(ctx Context, this Value, value Value) error
)

// Method is a named instance method.
type Method[T any] struct {
	Name string
	Func MethodFunc[T]
}

// Property is a named instance property. A nil Set makes it read only.
type Property[T any] struct {
	Name string
	Get  GetterFunc[T]
	Set  SetterFunc[T]
}

// StaticMethod is a named method of the constructor object.
type StaticMethod struct {
	Name string
	Func StaticMethodFunc
}

// StaticProperty is a named property of the constructor object. A nil Set
// makes it read only.
type StaticProperty struct {
	Name string
	Get  StaticGetterFunc
	Set  StaticSetterFunc
}

// IndexAccessor provides array-like access. A nil Set makes every index
// read only.
type IndexAccessor[T any] struct {
	Get IndexGetterFunc[T]
	Set IndexSetterFunc[T]
}

// StringAccessor provides map-like access to arbitrary names.
type StringAccessor[T any] struct {
	Get       StringGetterFunc[T]
	Set       StringSetterFunc[T]
	Enumerate StringEnumeratorFunc[T]
}

// Class is a bindable class, implemented by [*ClassDescriptor].
type Class interface {
	ClassName() string
	// SuperClass returns the parent class, or nil at the root.
	SuperClass() Class
	// Bind returns the type-erased binding of the class. It is computed
	// once, and the result is shared by every engine.
	Bind() (*Binding, error)
}

// ClassDescriptor declares a bindable class whose instances own a native
// object of type T.
//
// T is the type seen by this class's callbacks. Subclasses may own natives of
// a different type, as long as those values are assignable to T (typically,
// T is an interface implemented by every native in the hierarchy).
//
// Member slices keep their order, which is also the enumeration order of the
// materialized members. A descriptor must not be modified once bound.
type ClassDescriptor[T any] struct {
	Name             string
	Superclass       Class
	Constructor      ConstructorFunc[T]
	Methods          []Method[T]
	Properties       []Property[T]
	StaticMethods    []StaticMethod
	StaticProperties []StaticProperty
	IndexAccessor    *IndexAccessor[T]
	StringAccessor   *StringAccessor[T]
	Finalizer        FinalizerFunc[T]

	once    sync.Once
	binding *Binding
	err     error
}

var _ Class = (*ClassDescriptor[any])(nil)

func (d *ClassDescriptor[T]) ClassName() string { return d.Name }

func (d *ClassDescriptor[T]) SuperClass() Class { return d.Superclass }

func (d *ClassDescriptor[T]) Bind() (*Binding, error) {
	d.once.Do(func() {
		d.binding, d.err = bindDescriptor(d)
	})
	return d.binding, d.err
}

// MustBind is like [ClassDescriptor.Bind], but panics on an invalid
// descriptor. It is intended for package-level class declarations.
func (d *ClassDescriptor[T]) MustBind() *Binding {
	b, err := d.Bind()
	if err != nil {
		panic(err)
	}
	return b
}
