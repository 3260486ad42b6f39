package jsbind

import (
	"fmt"
)

// fakeContext is a minimal Context over plain Go values: objects are
// *fakeObject, functions *fakeFunc, arrays []Value.
type fakeContext struct {
	pins map[int]Value
	next int
}

type (
	fakeUndefined struct{}
	fakeNull      struct{}

	fakeObject struct {
		props map[string]Value
		// get overrides property reads, when set
		get func(name string) (Value, error)
	}

	fakeFunc struct {
		fn func(this Value, args []Value) (Value, error)
	}
)

var _ Context = (*fakeContext)(nil)

func newFakeContext() *fakeContext {
	return &fakeContext{pins: make(map[int]Value)}
}

func (c *fakeContext) Undefined() Value { return fakeUndefined{} }

func (c *fakeContext) Null() Value { return fakeNull{} }

func (c *fakeContext) IsUndefined(v Value) bool {
	_, ok := v.(fakeUndefined)
	return ok || v == nil
}

func (c *fakeContext) IsNull(v Value) bool {
	_, ok := v.(fakeNull)
	return ok
}

func (c *fakeContext) IsObject(v Value) bool {
	switch v.(type) {
	case *fakeObject, *fakeFunc, []Value:
		return true
	}
	return false
}

func (c *fakeContext) IsFunction(v Value) bool {
	_, ok := v.(*fakeFunc)
	return ok
}

func (c *fakeContext) FromBool(b bool) Value { return b }

func (c *fakeContext) FromNumber(n float64) Value { return n }

func (c *fakeContext) FromString(s string) Value { return s }

func (c *fakeContext) ToBool(v Value) bool {
	b, _ := v.(bool)
	return b
}

func (c *fakeContext) ToNumber(v Value) (float64, error) {
	if n, ok := v.(float64); ok {
		return n, nil
	}
	return 0, NewTypeError("not a number: %v", v)
}

func (c *fakeContext) ToString(v Value) (string, error) { return fmt.Sprint(v), nil }

func (c *fakeContext) NewObject() Value { return &fakeObject{props: map[string]Value{}} }

func (c *fakeContext) NewArray(values []Value) Value { return append([]Value{}, values...) }

func (c *fakeContext) GetProperty(object Value, name string) (Value, error) {
	obj, ok := object.(*fakeObject)
	if !ok {
		return nil, NewTypeError("not an object")
	}
	if obj.get != nil {
		return obj.get(name)
	}
	if v, ok := obj.props[name]; ok {
		return v, nil
	}
	return c.Undefined(), nil
}

func (c *fakeContext) SetProperty(object Value, name string, value Value) error {
	obj, ok := object.(*fakeObject)
	if !ok {
		return NewTypeError("not an object")
	}
	obj.props[name] = value
	return nil
}

func (c *fakeContext) Call(fn Value, this Value, args ...Value) (Value, error) {
	f, ok := fn.(*fakeFunc)
	if !ok {
		return nil, NewTypeError("not a function")
	}
	return f.fn(this, args)
}

func (c *fakeContext) SameValue(a, b Value) bool {
	defer func() { _ = recover() }()
	return a == b
}

func (c *fakeContext) Protect(v Value) (unprotect func()) {
	c.next++
	id := c.next
	c.pins[id] = v
	return func() { delete(c.pins, id) }
}

func fakeObjectOf(props map[string]Value) *fakeObject {
	return &fakeObject{props: props}
}
