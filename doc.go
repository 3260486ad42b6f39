// Package jsbind implements an engine-agnostic protocol for exposing native
// Go objects to a garbage-collected scripting runtime.
//
// A [ClassDescriptor] declares a bindable type: its name, an optional
// superclass, a constructor, instance and static methods and properties, and
// optional index (array-like) and string (map-like) accessors. Engine
// adapters, such as [github.com/joeycumines/go-jsbind/gojabind], materialize
// descriptors into their native class machinery, keeping one [Wrap] per
// scripting-visible instance.
//
// # Dispatch
//
// Every call from the engine into native code goes through one of the
// [Binding] entry points (the dispatch trampolines). They convert engine
// arguments, invoke the typed callback, and convert both returned errors and
// recovered panics into a returned error, which the adapter then raises
// through the engine's own exception channel. Nothing unwinds across the
// engine boundary.
//
// Property access is resolved in a fixed order:
//
//  1. names that are canonical non-negative integers go to the index
//     accessor, where an out-of-range index reads as undefined
//  2. other names go to the string accessor
//  3. anything else is left to the engine (own properties, then the
//     prototype chain)
//
// # Lifetime
//
// A [Wrap] exclusively owns its native object until it is finalized. The
// finalizers of the class chain run leaf first, exactly once, after which
// the native object is released and further access fails with
// [ErrNoNativeObject].
//
// Engine values retained across asynchronous boundaries (listener callbacks,
// for example) are held through [Protected] references, which keep the value
// pinned until the last handle is released.
//
// # Threading
//
// The scripting engine is single threaded. Everything in this package
// assumes it is called on the engine's thread; work originating elsewhere
// must be marshaled through a [Scheduler] first.
package jsbind
