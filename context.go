package jsbind

// Value is an opaque engine value. Each [Context] implementation documents
// the concrete type it uses (goja.Value, for the goja adapter).
type Value = any

// Context exposes the primitives of a scripting engine host that the binding
// protocol consumes. Implementations are bound to a single engine instance,
// and must only be used from that engine's thread.
type Context interface {
	// Undefined returns the engine's undefined value.
	Undefined() Value
	// Null returns the engine's null value.
	Null() Value

	IsUndefined(v Value) bool
	IsNull(v Value) bool
	// IsObject reports whether v is an object, including functions.
	IsObject(v Value) bool
	// IsFunction reports whether v is directly invocable.
	IsFunction(v Value) bool

	FromBool(b bool) Value
	FromNumber(n float64) Value
	FromString(s string) Value

	ToBool(v Value) bool
	// ToNumber converts v to a number, failing if v is not a number.
	ToNumber(v Value) (float64, error)
	// ToString converts v to a string, using the engine's conversion rules.
	ToString(v Value) (string, error)

	// NewObject creates an empty plain object.
	NewObject() Value
	// NewArray creates an array holding values, in order.
	NewArray(values []Value) Value

	// GetProperty reads a named property, which may invoke accessors.
	GetProperty(object Value, name string) (Value, error)
	// SetProperty writes a named property, which may invoke accessors.
	SetProperty(object Value, name string, value Value) error

	// Call invokes fn with the given receiver and arguments. Exceptions
	// thrown by fn are returned as errors.
	Call(fn Value, this Value, args ...Value) (Value, error)

	// SameValue reports whether a and b are the same engine value, using
	// identity for objects.
	SameValue(a, b Value) bool

	// Protect pins v, preventing the engine from collecting it until the
	// returned function is called. The returned function must be called
	// exactly once.
	Protect(v Value) (unprotect func())
}

// Scheduler runs tasks on the engine's thread, in submission order.
// Schedule reports false if the task was rejected, e.g. because the engine
// has shut down.
type Scheduler interface {
	Schedule(task func()) bool
}

// SchedulerFunc adapts a function to [Scheduler].
type SchedulerFunc func(task func()) bool

// Schedule implements [Scheduler].
func (f SchedulerFunc) Schedule(task func()) bool { return f(task) }
