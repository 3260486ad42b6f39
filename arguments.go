package jsbind

import (
	"fmt"
	"math"
)

// Arguments are the arguments of a native call, as engine values.
type Arguments struct {
	ctx    Context
	values []Value
}

// NewArguments wraps the raw argument values of a call.
func NewArguments(ctx Context, values []Value) Arguments {
	return Arguments{ctx: ctx, values: values}
}

// Len returns the number of supplied arguments.
func (a Arguments) Len() int { return len(a.values) }

// Get returns the argument at i, or undefined if it was not supplied.
func (a Arguments) Get(i int) Value {
	if i < 0 || i >= len(a.values) {
		return a.ctx.Undefined()
	}
	return a.values[i]
}

// Values returns the supplied arguments.
func (a Arguments) Values() []Value { return a.values }

// ValidateCount fails unless exactly n arguments were supplied.
func (a Arguments) ValidateCount(n int) error {
	if len(a.values) != n {
		return fmt.Errorf("%w: %d expected, but %d supplied", ErrInvalidArgument, n, len(a.values))
	}
	return nil
}

// ValidateMaximum fails if more than max arguments were supplied.
func (a Arguments) ValidateMaximum(max int) error {
	if len(a.values) > max {
		return fmt.Errorf("%w: at most %d expected, but %d supplied", ErrInvalidArgument, max, len(a.values))
	}
	return nil
}

// ValidateBetween fails unless between min and max arguments (inclusive)
// were supplied.
func (a Arguments) ValidateBetween(min, max int) error {
	if len(a.values) < min || len(a.values) > max {
		return fmt.Errorf("%w: between %d and %d expected, but %d supplied", ErrInvalidArgument, min, max, len(a.values))
	}
	return nil
}

// ReturnValue collects the result of a native callback. A callback that
// never sets it yields undefined, except for string getters, where an unset
// return value means the name is not handled.
type ReturnValue struct {
	ctx   Context
	value Value
	set   bool
}

// NewReturnValue constructs an empty return value holder.
func NewReturnValue(ctx Context) *ReturnValue {
	return &ReturnValue{ctx: ctx}
}

func (r *ReturnValue) Set(v Value) {
	r.value = v
	r.set = true
}

func (r *ReturnValue) SetUndefined() {
	r.Set(r.ctx.Undefined())
}

func (r *ReturnValue) SetNull() {
	r.Set(r.ctx.Null())
}

func (r *ReturnValue) SetBool(b bool) {
	r.Set(r.ctx.FromBool(b))
}

func (r *ReturnValue) SetNumber(n float64) {
	r.Set(r.ctx.FromNumber(n))
}

func (r *ReturnValue) SetString(s string) {
	r.Set(r.ctx.FromString(s))
}

// IsSet reports whether a value was set.
func (r *ReturnValue) IsSet() bool { return r.set }

// Value returns the collected value, or undefined if none was set.
func (r *ReturnValue) Value() Value {
	if !r.set {
		return r.ctx.Undefined()
	}
	return r.value
}

// ValidatedObject returns v if it is an object, otherwise a [TypeError]
// naming what was expected.
func ValidatedObject(ctx Context, v Value, name string) (Value, error) {
	if !ctx.IsObject(v) {
		if name == "" {
			return nil, NewTypeError("Value is not an object")
		}
		return nil, NewTypeError("%s must be of type 'object'", name)
	}
	return v, nil
}

// ValidatedFunction returns v if it is invocable, otherwise a [TypeError]
// naming what was expected.
func ValidatedFunction(ctx Context, v Value, name string) (Value, error) {
	if !ctx.IsFunction(v) {
		if name == "" {
			return nil, NewTypeError("Value is not a function")
		}
		return nil, NewTypeError("%s must be of type 'function'", name)
	}
	return v, nil
}

// ValidatedLength reads the length property of object, which must be a
// non-negative integral number that fits in a uint32.
func ValidatedLength(ctx Context, object Value) (uint32, error) {
	v, err := ctx.GetProperty(object, "length")
	if err != nil {
		return 0, err
	}
	n, err := ctx.ToNumber(v)
	if err != nil {
		return 0, NewTypeError("length must be of type 'number'")
	}
	if n < 0 || n > maxIndex+1 || n != math.Trunc(n) {
		return 0, NewTypeError("length %v is not a valid length", n)
	}
	return uint32(n), nil
}
