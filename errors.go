package jsbind

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrIllegalConstructor is returned when user code constructs a class
	// whose descriptor has no constructor.
	ErrIllegalConstructor = errors.New("Illegal constructor")

	// ErrIndexOutOfRange is returned by index accessors for positions past
	// the end of the collection. Index getters failing with it read as
	// undefined rather than raising an exception.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoNativeObject is returned when an instance is accessed while it
	// does not own a native object: before construction completed, after a
	// failed construction, or after finalization.
	ErrNoNativeObject = errors.New("object has no native value (not constructed or already finalized)")

	// ErrIncompatibleReceiver is returned when a method or accessor is
	// invoked on a value that is not an instance of its class.
	ErrIncompatibleReceiver = errors.New("incompatible receiver")

	// ErrInvalidArgument is the base of argument validation failures.
	ErrInvalidArgument = errors.New("Invalid arguments")
)

// TypeError is an error that engine adapters surface as the engine's type
// error, rather than a generic error.
type TypeError struct {
	Cause   error
	Message string
}

// NewTypeError formats a [TypeError].
func NewTypeError(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

func (e *TypeError) Error() string {
	if e.Message == "" {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "type error"
	}
	return e.Message
}

func (e *TypeError) Unwrap() error { return e.Cause }

// PanicError is returned by dispatch trampolines that recovered a panic
// from a native callback.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

// Unwrap returns the panic value, if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ReadOnlyPropertyError is returned when writing a property that has no
// setter.
type ReadOnlyPropertyError struct {
	Name string
}

func (e *ReadOnlyPropertyError) Error() string {
	return "Cannot assign to read only property '" + e.Name + "'"
}

// ReadOnlyIndexError is returned when writing an index of a class that has an
// index getter but no index setter.
type ReadOnlyIndexError struct {
	Index uint32
}

func (e *ReadOnlyIndexError) Error() string {
	return "Cannot assign to read only index " + strconv.FormatUint(uint64(e.Index), 10)
}

// OutOfRangeError describes an index past the end of a collection. It
// matches [ErrIndexOutOfRange].
type OutOfRangeError struct {
	Index  uint32
	Length uint32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range (length %d)", e.Index, e.Length)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }
