package gojabind

import (
	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
)

// boundClass is a class materialized in a runtime.
type boundClass struct {
	binding     *jsbind.Binding
	parent      *boundClass
	prototype   *goja.Object
	constructor *goja.Object
}

// materialize creates the prototype and constructor of b. The parent is
// already materialized, or nil at the root.
func (x *Binder) materialize(b *jsbind.Binding, parent *boundClass) (*boundClass, error) {
	c := &boundClass{
		binding: b,
		parent:  parent,
	}

	c.constructor = x.runtime.ToValue(func(call goja.ConstructorCall) *goja.Object {
		return x.construct(c, call)
	}).(*goja.Object)
	if err := x.setName(c.constructor, b.Name()); err != nil {
		return nil, err
	}

	if proto, ok := c.constructor.Get("prototype").(*goja.Object); ok {
		c.prototype = proto
	} else {
		c.prototype = x.runtime.NewObject()
		if err := c.constructor.DefineDataProperty("prototype", c.prototype, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
			return nil, err
		}
	}
	if parent != nil {
		if err := c.prototype.SetPrototype(parent.prototype); err != nil {
			return nil, err
		}
	}

	for _, m := range b.Methods() {
		fn, err := x.method(m)
		if err != nil {
			return nil, err
		}
		if err := c.prototype.DefineDataProperty(m.Name(), fn, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
			return nil, err
		}
	}
	for _, p := range b.Properties() {
		getter, setter, err := x.property(p)
		if err != nil {
			return nil, err
		}
		if err := c.prototype.DefineAccessorProperty(p.Name(), getter, setter, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
			return nil, err
		}
	}

	if b.HasConstructorClass() {
		for _, m := range b.StaticMethods() {
			fn, err := x.staticMethod(m)
			if err != nil {
				return nil, err
			}
			if err := c.constructor.DefineDataProperty(m.Name(), fn, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
				return nil, err
			}
		}
		for _, p := range b.StaticProperties() {
			getter, setter, err := x.staticProperty(p)
			if err != nil {
				return nil, err
			}
			if err := c.constructor.DefineAccessorProperty(p.Name(), getter, setter, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
				return nil, err
			}
		}
	}

	x.logger.Debug().
		Str(`class`, b.Name()).
		Int(`depth`, b.Depth()).
		Bool(`constructor_class`, b.HasConstructorClass()).
		Log(`gojabind: materialized class`)

	return c, nil
}

// construct implements new, for every class. Classes without a constructor
// are illegal to construct. The instance takes its prototype from new.target,
// so script subclasses work as expected.
func (x *Binder) construct(c *boundClass, call goja.ConstructorCall) *goja.Object {
	if !c.binding.HasConstructor() {
		x.throw(jsbind.ErrIllegalConstructor)
	}
	proto := c.prototype
	if p := call.This.Prototype(); p != nil {
		proto = p
	}
	obj, inst := x.allocate(c, proto, nil)
	if err := c.binding.Construct(x, obj, inst.wrap, x.values(call.Arguments)); err != nil {
		x.throw(err)
	}
	return obj
}

func (x *Binder) method(m jsbind.BoundMethod) (goja.Value, error) {
	return x.function(m.Name(), func(call goja.FunctionCall) goja.Value {
		v, err := m.Call(x, call.This, x.receiver(call.This), x.values(call.Arguments))
		if err != nil {
			x.throw(err)
		}
		return x.value(v)
	})
}

// property returns the accessor functions of p. Read only properties still
// get a setter, which throws.
func (x *Binder) property(p jsbind.BoundProperty) (getter, setter goja.Value, err error) {
	getter, err = x.function("get "+p.Name(), func(call goja.FunctionCall) goja.Value {
		v, err := p.Get(x, call.This, x.receiver(call.This))
		if err != nil {
			x.throw(err)
		}
		return x.value(v)
	})
	if err != nil {
		return nil, nil, err
	}
	setter, err = x.function("set "+p.Name(), func(call goja.FunctionCall) goja.Value {
		if err := p.Set(x, call.This, x.receiver(call.This), call.Argument(0)); err != nil {
			x.throw(err)
		}
		return goja.Undefined()
	})
	if err != nil {
		return nil, nil, err
	}
	return getter, setter, nil
}

func (x *Binder) staticMethod(m jsbind.BoundStaticMethod) (goja.Value, error) {
	return x.function(m.Name(), func(call goja.FunctionCall) goja.Value {
		v, err := m.Call(x, call.This, x.values(call.Arguments))
		if err != nil {
			x.throw(err)
		}
		return x.value(v)
	})
}

func (x *Binder) staticProperty(p jsbind.BoundStaticProperty) (getter, setter goja.Value, err error) {
	getter, err = x.function("get "+p.Name(), func(call goja.FunctionCall) goja.Value {
		v, err := p.Get(x, call.This)
		if err != nil {
			x.throw(err)
		}
		return x.value(v)
	})
	if err != nil {
		return nil, nil, err
	}
	setter, err = x.function("set "+p.Name(), func(call goja.FunctionCall) goja.Value {
		if err := p.Set(x, call.This, call.Argument(0)); err != nil {
			x.throw(err)
		}
		return goja.Undefined()
	})
	if err != nil {
		return nil, nil, err
	}
	return getter, setter, nil
}

// function wraps fn as a named function object.
func (x *Binder) function(name string, fn func(call goja.FunctionCall) goja.Value) (goja.Value, error) {
	f := x.runtime.ToValue(fn).(*goja.Object)
	if err := x.setName(f, name); err != nil {
		return nil, err
	}
	return f, nil
}

// setName redefines the name of a function object, as a non-writable,
// configurable property.
func (x *Binder) setName(f *goja.Object, name string) error {
	return f.DefineDataProperty("name", x.runtime.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
}

// receiver returns the state of this, or nil if it is not an instance of a
// class bound by x. The trampolines reject a nil state.
func (x *Binder) receiver(this goja.Value) *jsbind.Wrap {
	w, _ := x.Unwrap(this)
	return w
}
