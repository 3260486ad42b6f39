package gojabind

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/go-jsbind"
)

// Require returns a loader for a native module exporting the constructors
// of classes, for [require.Registry.RegisterNativeModule]. Each runtime
// loading the module gets its own [Binder], configured with opts.
func Require(classes []jsbind.Class, opts ...Option) require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		x, err := New(runtime, opts...)
		if err != nil {
			panic(runtime.NewGoError(err))
		}
		x.load(module, classes)
	}
}

// ModuleLoader is like [Require], using x. It must only be loaded by x's
// runtime.
func (x *Binder) ModuleLoader(classes ...jsbind.Class) require.ModuleLoader {
	return func(runtime *goja.Runtime, module *goja.Object) {
		if runtime != x.runtime {
			panic(runtime.NewTypeError("gojabind: module loaded by a foreign runtime"))
		}
		x.load(module, classes)
	}
}

func (x *Binder) load(module *goja.Object, classes []jsbind.Class) {
	exports := module.Get("exports").(*goja.Object)
	if err := x.Define(exports, classes...); err != nil {
		panic(x.runtime.NewGoError(err))
	}
}
