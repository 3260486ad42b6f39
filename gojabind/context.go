package gojabind

import (
	"reflect"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
)

var (
	typeInt64   = reflect.TypeOf(int64(0))
	typeFloat64 = reflect.TypeOf(float64(0))
)

func (x *Binder) Undefined() jsbind.Value { return goja.Undefined() }

func (x *Binder) Null() jsbind.Value { return goja.Null() }

func (x *Binder) IsUndefined(v jsbind.Value) bool {
	gv := x.value(v)
	return goja.IsUndefined(gv)
}

func (x *Binder) IsNull(v jsbind.Value) bool {
	return goja.IsNull(x.value(v))
}

func (x *Binder) IsObject(v jsbind.Value) bool {
	_, ok := x.value(v).(*goja.Object)
	return ok
}

func (x *Binder) IsFunction(v jsbind.Value) bool {
	_, ok := goja.AssertFunction(x.value(v))
	return ok
}

func (x *Binder) FromBool(b bool) jsbind.Value { return x.runtime.ToValue(b) }

func (x *Binder) FromNumber(n float64) jsbind.Value { return x.runtime.ToValue(n) }

func (x *Binder) FromString(s string) jsbind.Value { return x.runtime.ToValue(s) }

func (x *Binder) ToBool(v jsbind.Value) bool { return x.value(v).ToBoolean() }

// ToNumber converts a number value. Other types, including number objects,
// are rejected.
func (x *Binder) ToNumber(v jsbind.Value) (float64, error) {
	gv := x.value(v)
	switch gv.ExportType() {
	case typeInt64, typeFloat64:
		return gv.ToFloat(), nil
	}
	return 0, jsbind.NewTypeError("Value is not a number")
}

// ToString converts any value to a string, as String(v) would.
func (x *Binder) ToString(v jsbind.Value) (s string, err error) {
	err = x.try(func() { s = x.value(v).String() })
	return s, err
}

func (x *Binder) NewObject() jsbind.Value { return x.runtime.NewObject() }

func (x *Binder) NewArray(values []jsbind.Value) jsbind.Value {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = x.value(v)
	}
	return x.runtime.NewArray(items...)
}

func (x *Binder) GetProperty(object jsbind.Value, name string) (v jsbind.Value, err error) {
	err = x.try(func() {
		obj := x.value(object).ToObject(x.runtime)
		gv := obj.Get(name)
		if gv == nil {
			gv = goja.Undefined()
		}
		v = gv
	})
	return v, err
}

func (x *Binder) SetProperty(object jsbind.Value, name string, value jsbind.Value) error {
	obj, ok := x.value(object).(*goja.Object)
	if !ok {
		return jsbind.NewTypeError("Cannot set property '%s' of a non-object", name)
	}
	return obj.Set(name, x.value(value))
}

// Call invokes fn. A thrown exception is returned as a [*goja.Exception].
func (x *Binder) Call(fn jsbind.Value, this jsbind.Value, args ...jsbind.Value) (jsbind.Value, error) {
	f, ok := goja.AssertFunction(x.value(fn))
	if !ok {
		return nil, jsbind.NewTypeError("Value is not a function")
	}
	v, err := f(x.value(this), x.gojaValues(args)...)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (x *Binder) SameValue(a, b jsbind.Value) bool {
	return x.value(a).SameAs(x.value(b))
}

// Protect pins v until the returned function is called. Pinned values are
// reachable from the binder, so remain alive as long as it does.
func (x *Binder) Protect(v jsbind.Value) (unprotect func()) {
	x.nextPin++
	id := x.nextPin
	x.pins[id] = x.value(v)
	return func() {
		delete(x.pins, id)
	}
}

// value converts an engine value as passed through [jsbind]. Values not
// created by the runtime are converted with [goja.Runtime.ToValue], and nil
// is undefined.
func (x *Binder) value(v jsbind.Value) goja.Value {
	switch v := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return v
	default:
		return x.runtime.ToValue(v)
	}
}

func (x *Binder) values(args []goja.Value) []jsbind.Value {
	values := make([]jsbind.Value, len(args))
	for i, v := range args {
		values[i] = v
	}
	return values
}

func (x *Binder) gojaValues(values []jsbind.Value) []goja.Value {
	args := make([]goja.Value, len(values))
	for i, v := range values {
		args[i] = x.value(v)
	}
	return args
}
