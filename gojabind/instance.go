package gojabind

import (
	"runtime"
	"slices"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
)

// instance is the [goja.DynamicObject] handler of a bound object. Names
// claimed by the class's accessors are served by them, other own properties
// are stored in expando.
type instance struct {
	binder *Binder
	class  *boundClass
	wrap   *jsbind.Wrap
	this   *goja.Object

	expando map[string]goja.Value
	keys    []string
}

var _ goja.DynamicObject = (*instance)(nil)

// allocate creates an instance of c owning native, which may be nil until a
// constructor completes.
func (x *Binder) allocate(c *boundClass, proto *goja.Object, native any) (*goja.Object, *instance) {
	inst := &instance{
		binder: x,
		class:  c,
		wrap:   jsbind.NewWrap(c.binding, native),
	}
	obj := x.runtime.NewDynamicObject(inst)
	inst.this = obj
	// prototypes of bound classes are ordinary objects, so cannot loop
	_ = obj.SetPrototype(proto)
	if x.scheduler != nil {
		runtime.AddCleanup(obj, x.collected, inst.wrap)
	}
	return obj, inst
}

// instanceOf returns the handler of v, if v is a bound object.
func instanceOf(v goja.Value) (*instance, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return nil, false
	}
	inst, ok := obj.Export().(*instance)
	return inst, ok
}

func (i *instance) Get(key string) goja.Value {
	v, lookup, err := i.class.binding.GetProperty(i.binder, i.this, i.wrap, key)
	if err != nil {
		i.binder.throw(err)
	}
	if lookup != jsbind.LookupUnhandled {
		return i.binder.value(v)
	}
	if v, ok := i.expando[key]; ok {
		return v
	}
	return nil
}

func (i *instance) Set(key string, val goja.Value) bool {
	handled, err := i.class.binding.SetProperty(i.binder, i.this, i.wrap, key, val)
	if err != nil {
		i.binder.throw(err)
	}
	if handled {
		return true
	}
	if i.expando == nil {
		i.expando = make(map[string]goja.Value)
	}
	if _, ok := i.expando[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.expando[key] = val
	return true
}

// Has reports whether key is an own property. Accessor failures are
// treated as absence, as Has is consulted implicitly by assignments.
func (i *instance) Has(key string) bool {
	ok, err := i.class.binding.HasProperty(i.binder, i.this, i.wrap, key)
	if err != nil {
		i.binder.logger.Debug().
			Str(`class`, i.class.binding.Name()).
			Str(`key`, key).
			Err(err).
			Log(`gojabind: has check failed`)
		return false
	}
	if ok {
		return true
	}
	_, ok = i.expando[key]
	return ok
}

// Delete removes an expando property. Properties served by the accessors
// cannot be deleted.
func (i *instance) Delete(key string) bool {
	if _, ok := i.expando[key]; ok {
		delete(i.expando, key)
		i.keys = slices.DeleteFunc(i.keys, func(k string) bool { return k == key })
		return true
	}
	return !i.Has(key)
}

// Keys lists the accessor names, then the expando properties. It never
// throws.
func (i *instance) Keys() []string {
	names, swallowed := i.class.binding.PropertyNames(i.binder, i.this, i.wrap)
	if swallowed != nil {
		i.binder.logger.Debug().
			Str(`class`, i.class.binding.Name()).
			Err(swallowed).
			Log(`gojabind: enumeration failure ignored`)
	}
	for _, key := range i.keys {
		if !slices.Contains(names, key) {
			names = append(names, key)
		}
	}
	return names
}
