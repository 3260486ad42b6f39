package jsbind

import (
	"errors"
	"fmt"
)

// Lookup is the outcome of resolving a property through a class's
// accessors.
type Lookup int

const (
	// LookupUnhandled means no accessor claimed the name, and the engine
	// should continue with its default resolution.
	LookupUnhandled Lookup = iota
	// LookupFound means an accessor produced the value.
	LookupFound
	// LookupAbsent means the name is an index past the end of the
	// collection. It reads as undefined, but does not exist.
	LookupAbsent
)

// Binding is the type-erased form of a [ClassDescriptor], consumed by engine
// adapters. Its methods are the dispatch trampolines: each invokes a typed
// callback and returns every failure, panics included, as an error.
//
// A Binding is immutable, and its identity is that of its descriptor, which
// makes it suitable as a registry key.
type Binding struct {
	name             string
	parent           *Binding
	constructor      func(ctx Context, this Value, args Arguments) (any, error)
	methods          []BoundMethod
	properties       []BoundProperty
	staticMethods    []BoundStaticMethod
	staticProperties []BoundStaticProperty
	finalizer        func(native any)

	// effective accessors, possibly inherited
	index *boundIndexAccessor
	str   *boundStringAccessor
}

// BoundMethod is an instance method of a [Binding].
type BoundMethod struct {
	name string
	call func(ctx Context, this Value, w *Wrap, args Arguments, ret *ReturnValue) error
}

// BoundProperty is an instance property of a [Binding].
type BoundProperty struct {
	name string
	get  func(ctx Context, this Value, w *Wrap, ret *ReturnValue) error
	set  func(ctx Context, this Value, w *Wrap, value Value) error
}

// BoundStaticMethod is a method of a [Binding]'s constructor object.
type BoundStaticMethod struct {
	name string
	fn   StaticMethodFunc
}

// BoundStaticProperty is a property of a [Binding]'s constructor object.
type BoundStaticProperty struct {
	name string
	get  StaticGetterFunc
	set  StaticSetterFunc
}

type boundIndexAccessor struct {
	owner *Binding
	get   func(ctx Context, this Value, w *Wrap, index uint32, ret *ReturnValue) error
	set   func(ctx Context, this Value, w *Wrap, index uint32, value Value) (bool, error)
}

type boundStringAccessor struct {
	owner     *Binding
	get       func(ctx Context, this Value, w *Wrap, name string, ret *ReturnValue) error
	set       func(ctx Context, this Value, w *Wrap, name string, value Value) (bool, error)
	enumerate func(ctx Context, this Value, w *Wrap) ([]string, error)
}

func bindDescriptor[T any](d *ClassDescriptor[T]) (*Binding, error) {
	if d.Name == "" {
		return nil, errors.New("jsbind: class name must not be empty")
	}
	if err := checkHierarchy(d); err != nil {
		return nil, err
	}

	b := &Binding{name: d.Name}

	if d.Superclass != nil {
		parent, err := d.Superclass.Bind()
		if err != nil {
			return nil, fmt.Errorf("jsbind: class %s: superclass: %w", d.Name, err)
		}
		b.parent = parent
	}

	names := make(map[string]struct{}, len(d.Methods)+len(d.Properties))
	claim := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("jsbind: class %s: %s name must not be empty", d.Name, kind)
		}
		if _, ok := names[kind+"\x00"+name]; ok {
			return fmt.Errorf("jsbind: class %s: duplicate %s %q", d.Name, kind, name)
		}
		names[kind+"\x00"+name] = struct{}{}
		return nil
	}

	if d.Constructor != nil {
		fn := d.Constructor
		b.constructor = func(ctx Context, this Value, args Arguments) (any, error) {
			native, err := fn(ctx, this, args)
			if err != nil {
				return nil, err
			}
			return native, nil
		}
	}

	for _, m := range d.Methods {
		if err := claim("member", m.Name); err != nil {
			return nil, err
		}
		if m.Func == nil {
			return nil, fmt.Errorf("jsbind: class %s: method %q has no function", d.Name, m.Name)
		}
		fn := m.Func
		b.methods = append(b.methods, BoundMethod{
			name: m.Name,
			call: func(ctx Context, this Value, w *Wrap, args Arguments, ret *ReturnValue) error {
				self, err := selfOf[T](b, w)
				if err != nil {
					return err
				}
				return fn(ctx, this, self, args, ret)
			},
		})
	}

	for _, p := range d.Properties {
		if err := claim("member", p.Name); err != nil {
			return nil, err
		}
		if p.Get == nil {
			return nil, fmt.Errorf("jsbind: class %s: property %q has no getter", d.Name, p.Name)
		}
		get := p.Get
		bp := BoundProperty{
			name: p.Name,
			get: func(ctx Context, this Value, w *Wrap, ret *ReturnValue) error {
				self, err := selfOf[T](b, w)
				if err != nil {
					return err
				}
				return get(ctx, this, self, ret)
			},
		}
		if set := p.Set; set != nil {
			bp.set = func(ctx Context, this Value, w *Wrap, value Value) error {
				self, err := selfOf[T](b, w)
				if err != nil {
					return err
				}
				return set(ctx, this, self, value)
			}
		}
		b.properties = append(b.properties, bp)
	}

	for _, m := range d.StaticMethods {
		if err := claim("static", m.Name); err != nil {
			return nil, err
		}
		if m.Func == nil {
			return nil, fmt.Errorf("jsbind: class %s: static method %q has no function", d.Name, m.Name)
		}
		b.staticMethods = append(b.staticMethods, BoundStaticMethod{name: m.Name, fn: m.Func})
	}

	for _, p := range d.StaticProperties {
		if err := claim("static", p.Name); err != nil {
			return nil, err
		}
		if p.Get == nil {
			return nil, fmt.Errorf("jsbind: class %s: static property %q has no getter", d.Name, p.Name)
		}
		b.staticProperties = append(b.staticProperties, BoundStaticProperty{name: p.Name, get: p.Get, set: p.Set})
	}

	if a := d.IndexAccessor; a != nil && (a.Get != nil || a.Set != nil) {
		acc := &boundIndexAccessor{owner: b}
		if get := a.Get; get != nil {
			acc.get = func(ctx Context, this Value, w *Wrap, index uint32, ret *ReturnValue) error {
				self, err := selfOf[T](b, w)
				if err != nil {
					return err
				}
				return get(ctx, this, self, index, ret)
			}
		}
		if set := a.Set; set != nil {
			acc.set = func(ctx Context, this Value, w *Wrap, index uint32, value Value) (bool, error) {
				self, err := selfOf[T](b, w)
				if err != nil {
					return false, err
				}
				return set(ctx, this, self, index, value)
			}
		}
		b.index = acc
	} else if b.parent != nil {
		b.index = b.parent.index
	}

	if a := d.StringAccessor; a != nil && (a.Get != nil || a.Set != nil || a.Enumerate != nil) {
		acc := &boundStringAccessor{owner: b}
		if get := a.Get; get != nil {
			acc.get = func(ctx Context, this Value, w *Wrap, name string, ret *ReturnValue) error {
				self, err := selfOf[T](b, w)
				if err != nil {
					return err
				}
				return get(ctx, this, self, name, ret)
			}
		}
		if set := a.Set; set != nil {
			acc.set = func(ctx Context, this Value, w *Wrap, name string, value Value) (bool, error) {
				self, err := selfOf[T](b, w)
				if err != nil {
					return false, err
				}
				return set(ctx, this, self, name, value)
			}
		}
		if enumerate := a.Enumerate; enumerate != nil {
			acc.enumerate = func(ctx Context, this Value, w *Wrap) ([]string, error) {
				self, err := selfOf[T](b, w)
				if err != nil {
					return nil, err
				}
				return enumerate(ctx, this, self)
			}
		}
		b.str = acc
	} else if b.parent != nil {
		b.str = b.parent.str
	}

	if fn := d.Finalizer; fn != nil {
		b.finalizer = func(native any) {
			if self, ok := native.(T); ok {
				fn(self)
			}
		}
	}

	return b, nil
}

// checkHierarchy rejects superclass cycles, which would otherwise deadlock
// binding.
func checkHierarchy(c Class) error {
	seen := map[Class]struct{}{}
	for ; c != nil; c = c.SuperClass() {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("jsbind: class %s: superclass cycle", c.ClassName())
		}
		seen[c] = struct{}{}
	}
	return nil
}

// selfOf extracts the native object of w, as seen by class b.
func selfOf[T any](b *Binding, w *Wrap) (self T, err error) {
	if w == nil || !w.binding.IsA(b) {
		return self, &TypeError{Cause: ErrIncompatibleReceiver, Message: fmt.Sprintf("%s: receiver is not an instance of %s", ErrIncompatibleReceiver, b.name)}
	}
	native := w.Native()
	if native == nil {
		return self, ErrNoNativeObject
	}
	self, ok := native.(T)
	if !ok {
		return self, &TypeError{Cause: ErrIncompatibleReceiver, Message: fmt.Sprintf("%s: native %T is not usable by %s", ErrIncompatibleReceiver, native, b.name)}
	}
	return self, nil
}

// guard converts a panic into a [PanicError], stored in err.
func guard(err *error) {
	if r := recover(); r != nil {
		*err = &PanicError{Value: r}
	}
}

func (b *Binding) Name() string { return b.name }

// Parent returns the superclass binding, or nil at the root.
func (b *Binding) Parent() *Binding { return b.parent }

// IsA reports whether b is other, or derives from it.
func (b *Binding) IsA(other *Binding) bool {
	for c := b; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}

// Depth is the number of superclasses above b.
func (b *Binding) Depth() int {
	n := 0
	for c := b.parent; c != nil; c = c.parent {
		n++
	}
	return n
}

// HasConstructor reports whether user code may construct instances.
func (b *Binding) HasConstructor() bool { return b.constructor != nil }

// HasConstructorClass reports whether the class needs a dedicated
// constructor object, i.e. it has a constructor or static members. Other
// classes use the engine's default constructor machinery.
func (b *Binding) HasConstructorClass() bool {
	return b.constructor != nil || len(b.staticMethods) != 0 || len(b.staticProperties) != 0
}

// HasIndexAccessor reports whether b, or an ancestor, has an index getter.
func (b *Binding) HasIndexAccessor() bool { return b.index != nil && b.index.get != nil }

// HasStringAccessor reports whether b, or an ancestor, has a string
// accessor.
func (b *Binding) HasStringAccessor() bool { return b.str != nil }

// Methods returns the instance methods declared by b itself, in order.
func (b *Binding) Methods() []BoundMethod { return b.methods }

// Properties returns the instance properties declared by b itself, in order.
func (b *Binding) Properties() []BoundProperty { return b.properties }

func (b *Binding) StaticMethods() []BoundStaticMethod { return b.staticMethods }

func (b *Binding) StaticProperties() []BoundStaticProperty { return b.staticProperties }

// Construct runs the constructor trampoline for w, an instance allocated in
// its empty state. On success w owns the constructed native object; on
// failure it is left empty.
func (b *Binding) Construct(ctx Context, this Value, w *Wrap, args []Value) (err error) {
	if b.constructor == nil {
		return ErrIllegalConstructor
	}
	defer guard(&err)
	native, err := b.constructor(ctx, this, NewArguments(ctx, args))
	if err != nil {
		return err
	}
	w.Reset(native)
	return nil
}

// GetProperty resolves name through the index and string accessors.
func (b *Binding) GetProperty(ctx Context, this Value, w *Wrap, name string) (Value, Lookup, error) {
	if b.index != nil && b.index.get != nil {
		if index, ok := ParseIndex(name); ok {
			return b.GetIndex(ctx, this, w, index)
		}
	}
	if b.str != nil && b.str.get != nil {
		return b.GetString(ctx, this, w, name)
	}
	return nil, LookupUnhandled, nil
}

// SetProperty resolves a write of name through the index and string
// accessors, reporting whether it was handled.
func (b *Binding) SetProperty(ctx Context, this Value, w *Wrap, name string, value Value) (bool, error) {
	if b.index != nil {
		if index, ok := ParseIndex(name); ok {
			return b.SetIndex(ctx, this, w, index, value)
		}
	}
	if b.str != nil && b.str.set != nil {
		return b.SetString(ctx, this, w, name, value)
	}
	return false, nil
}

// HasProperty reports whether name exists through the accessors. Absent
// indices do not exist.
func (b *Binding) HasProperty(ctx Context, this Value, w *Wrap, name string) (bool, error) {
	_, lookup, err := b.GetProperty(ctx, this, w, name)
	return lookup == LookupFound, err
}

// PropertyNames enumerates the names served by the accessors: the indices
// 0 to length-1, then the names of the string enumerator.
//
// Enumeration never fails. If part of it did, names holds what could be
// collected and swallowed describes the failure, which callers must not
// raise into the engine.
func (b *Binding) PropertyNames(ctx Context, this Value, w *Wrap) (names []string, swallowed error) {
	if b.HasIndexAccessor() {
		length, err := b.validatedLength(ctx, this)
		if err != nil {
			swallowed = err
		} else {
			names = make([]string, 0, length)
			for i := uint32(0); i < length; i++ {
				names = append(names, FormatIndex(i))
			}
		}
	}
	if b.str != nil && b.str.enumerate != nil {
		more, err := b.enumerateStrings(ctx, this, w)
		if err != nil {
			swallowed = errors.Join(swallowed, err)
		}
		names = append(names, more...)
	}
	return names, swallowed
}

func (b *Binding) validatedLength(ctx Context, this Value) (length uint32, err error) {
	defer guard(&err)
	return ValidatedLength(ctx, this)
}

func (b *Binding) enumerateStrings(ctx Context, this Value, w *Wrap) (names []string, err error) {
	defer guard(&err)
	return b.str.enumerate(ctx, this, w)
}

// GetIndex is the index getter trampoline. Out-of-range failures yield
// undefined with [LookupAbsent], never an error.
func (b *Binding) GetIndex(ctx Context, this Value, w *Wrap, index uint32) (v Value, lookup Lookup, err error) {
	if b.index == nil || b.index.get == nil {
		return nil, LookupUnhandled, nil
	}
	ret := NewReturnValue(ctx)
	err = b.callIndexGetter(ctx, this, w, index, ret)
	if err != nil {
		if errors.Is(err, ErrIndexOutOfRange) {
			return ctx.Undefined(), LookupAbsent, nil
		}
		return nil, LookupUnhandled, err
	}
	return ret.Value(), LookupFound, nil
}

func (b *Binding) callIndexGetter(ctx Context, this Value, w *Wrap, index uint32, ret *ReturnValue) (err error) {
	defer guard(&err)
	return b.index.get(ctx, this, w, index, ret)
}

// SetIndex is the index setter trampoline. Classes with an index getter but
// no setter fail with a [ReadOnlyIndexError].
func (b *Binding) SetIndex(ctx Context, this Value, w *Wrap, index uint32, value Value) (handled bool, err error) {
	if b.index == nil {
		return false, nil
	}
	if b.index.set == nil {
		return false, &ReadOnlyIndexError{Index: index}
	}
	defer guard(&err)
	return b.index.set(ctx, this, w, index, value)
}

// GetString is the string getter trampoline.
func (b *Binding) GetString(ctx Context, this Value, w *Wrap, name string) (v Value, lookup Lookup, err error) {
	if b.str == nil || b.str.get == nil {
		return nil, LookupUnhandled, nil
	}
	ret := NewReturnValue(ctx)
	if err := b.callStringGetter(ctx, this, w, name, ret); err != nil {
		return nil, LookupUnhandled, err
	}
	if !ret.IsSet() {
		return nil, LookupUnhandled, nil
	}
	return ret.Value(), LookupFound, nil
}

func (b *Binding) callStringGetter(ctx Context, this Value, w *Wrap, name string, ret *ReturnValue) (err error) {
	defer guard(&err)
	return b.str.get(ctx, this, w, name, ret)
}

// SetString is the string setter trampoline.
func (b *Binding) SetString(ctx Context, this Value, w *Wrap, name string, value Value) (handled bool, err error) {
	if b.str == nil || b.str.set == nil {
		return false, nil
	}
	defer guard(&err)
	return b.str.set(ctx, this, w, name, value)
}

// Finalize runs the finalizers of the class chain on native, leaf first.
// A panicking finalizer does not prevent the others from running; the
// recovered panics are returned.
func (b *Binding) Finalize(native any) error {
	var errs []error
	for c := b; c != nil; c = c.parent {
		if c.finalizer == nil {
			continue
		}
		if err := c.runFinalizer(native); err != nil {
			errs = append(errs, fmt.Errorf("jsbind: finalizer of %s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Binding) runFinalizer(native any) (err error) {
	defer guard(&err)
	b.finalizer(native)
	return nil
}

func (m BoundMethod) Name() string { return m.name }

// Call is the method trampoline.
func (m BoundMethod) Call(ctx Context, this Value, w *Wrap, args []Value) (v Value, err error) {
	defer guard(&err)
	ret := NewReturnValue(ctx)
	if err := m.call(ctx, this, w, NewArguments(ctx, args), ret); err != nil {
		return nil, err
	}
	return ret.Value(), nil
}

func (p BoundProperty) Name() string { return p.name }

// ReadOnly reports whether the property has no setter.
func (p BoundProperty) ReadOnly() bool { return p.set == nil }

// Get is the getter trampoline.
func (p BoundProperty) Get(ctx Context, this Value, w *Wrap) (v Value, err error) {
	defer guard(&err)
	ret := NewReturnValue(ctx)
	if err := p.get(ctx, this, w, ret); err != nil {
		return nil, err
	}
	return ret.Value(), nil
}

// Set is the setter trampoline. Read only properties fail with a
// [ReadOnlyPropertyError], without touching the native object.
func (p BoundProperty) Set(ctx Context, this Value, w *Wrap, value Value) (err error) {
	if p.set == nil {
		return &ReadOnlyPropertyError{Name: p.name}
	}
	defer guard(&err)
	return p.set(ctx, this, w, value)
}

func (m BoundStaticMethod) Name() string { return m.name }

// Call is the static method trampoline.
func (m BoundStaticMethod) Call(ctx Context, this Value, args []Value) (v Value, err error) {
	defer guard(&err)
	ret := NewReturnValue(ctx)
	if err := m.fn(ctx, this, NewArguments(ctx, args), ret); err != nil {
		return nil, err
	}
	return ret.Value(), nil
}

func (p BoundStaticProperty) Name() string { return p.name }

func (p BoundStaticProperty) ReadOnly() bool { return p.set == nil }

// Get is the static getter trampoline.
func (p BoundStaticProperty) Get(ctx Context, this Value) (v Value, err error) {
	defer guard(&err)
	ret := NewReturnValue(ctx)
	if err := p.get(ctx, this, ret); err != nil {
		return nil, err
	}
	return ret.Value(), nil
}

// Set is the static setter trampoline.
func (p BoundStaticProperty) Set(ctx Context, this Value, value Value) (err error) {
	if p.set == nil {
		return &ReadOnlyPropertyError{Name: p.name}
	}
	defer guard(&err)
	return p.set(ctx, this, value)
}
