package gojabind

import (
	"errors"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
)

// exception converts err to the value to throw.
func (x *Binder) exception(err error) goja.Value {
	var (
		gojaException *goja.Exception
		panicErr      *jsbind.PanicError
		typeErr       *jsbind.TypeError
		propertyErr   *jsbind.ReadOnlyPropertyError
		indexErr      *jsbind.ReadOnlyIndexError
	)
	switch {
	case errors.As(err, &gojaException):
		return gojaException.Value()
	case errors.As(err, &panicErr) && isValue(panicErr.Value):
		// callbacks may throw as goja's own native functions do
		return panicErr.Value.(goja.Value)
	case errors.As(err, &typeErr),
		errors.As(err, &propertyErr),
		errors.As(err, &indexErr),
		errors.Is(err, jsbind.ErrIllegalConstructor),
		errors.Is(err, jsbind.ErrIncompatibleReceiver):
		return x.runtime.NewTypeError(err.Error())
	default:
		return x.runtime.NewGoError(err)
	}
}

func isValue(v any) bool {
	_, ok := v.(goja.Value)
	return ok
}

// throw raises err in the runtime. Interrupts propagate unchanged.
func (x *Binder) throw(err error) {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		panic(interrupted)
	}
	panic(x.exception(err))
}

// try runs fn, returning a thrown exception as an error.
func (x *Binder) try(fn func()) error {
	if ex := x.runtime.Try(fn); ex != nil {
		return ex
	}
	return nil
}
