// Package gojabind materializes [jsbind] class descriptors in the [goja]
// JavaScript runtime.
//
// # Overview
//
// A [Binder] is bound to one [goja.Runtime]. It implements [jsbind.Context]
// over that runtime, and lazily turns each [jsbind.Class] into a constructor
// function and a prototype object, cached per class:
//
//   - methods become non-enumerable, read only functions on the prototype
//   - properties become non-enumerable accessors on the prototype, where a
//     missing setter throws a TypeError naming the property
//   - static members live on the constructor
//   - the prototype of a class's prototype is its superclass's prototype
//
// Instances are [goja.DynamicObject] values, so that index and string
// accessors see every property access. Names the accessors do not claim fall
// back to the instance's own properties, then to the prototype chain.
//
// # Exceptions
//
// Native failures never unwind through goja. The [jsbind] trampolines return
// them as errors, which the binder throws as JavaScript exceptions: a
// rethrow of the original value for errors carrying a goja exception, a
// TypeError for type, read only and constructor errors, and an Error with the
// failure's message otherwise.
//
// # Usage
//
//	loop := eventloop.NewEventLoop()
//	loop.Start()
//	defer loop.Stop()
//
//	loop.RunOnLoop(func(rt *goja.Runtime) {
//	    b, _ := gojabind.New(rt, gojabind.WithEventLoop(loop))
//	    _ = b.Define(rt.GlobalObject(), PointClass)
//	    rt.RunString(`const p = new Point(1, 2); p.x`)
//	})
//
// Alternatively, the classes can be exposed as a module:
//
//	registry := require.NewRegistry()
//	registry.RegisterNativeModule("geometry", gojabind.Require([]jsbind.Class{PointClass}))
//
// # Finalization
//
// [Binder.Finalize] finalizes an instance immediately. When the binder has a
// scheduler (see [WithScheduler] and [WithEventLoop]), instances reclaimed by
// the Go garbage collector are also finalized, on the loop.
//
// [goja]: github.com/dop251/goja
package gojabind
