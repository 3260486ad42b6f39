package observable

import (
	"fmt"
	"slices"

	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/go-jsbind/notify"
	"github.com/joeycumines/logiface"
)

// Observable is implemented by native collections exposing change
// notifications to scripts.
type Observable interface {
	Listeners() *Listeners
}

// Listeners tracks the scripting listeners of one collection. Each
// registration holds protected references to its listener and to the
// collection instance, and owns a subscription to the change source, until
// it is removed, or until the source reports an error.
//
// Listeners is used from the engine's thread only.
type Listeners struct {
	source  notify.Source
	logger  *logiface.Logger[logiface.Event]
	entries []*registration
}

type registration struct {
	listener *jsbind.Protected[jsbind.Value]
	token    *notify.Token
	release  func()
}

// NewListeners creates the listener set of a collection observed via source.
func NewListeners(source notify.Source, opts ...Option) (*Listeners, error) {
	if source == nil {
		return nil, fmt.Errorf("observable: nil source")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("observable: %w", err)
	}
	return &Listeners{
		source: source,
		logger: cfg.logger,
	}, nil
}

// Add registers listener, on behalf of the collection instance this. A
// function is registered as a simple callback, anything else must be a hook
// object, whose before, after and error members must be functions when
// defined.
func (x *Listeners) Add(ctx jsbind.Context, this jsbind.Value, listener jsbind.Value) error {
	var cb interface {
		notify.Callback
		release()
	}
	if ctx.IsFunction(listener) {
		cb = newSimpleListener(ctx, this, listener, x.logger)
	} else {
		hooks, err := newHookListener(ctx, this, listener, x.logger)
		if err != nil {
			return err
		}
		cb = hooks
	}
	r := &registration{
		listener: jsbind.Protect(ctx, listener),
		release:  cb.release,
	}
	x.entries = append(x.entries, r)
	r.token = x.source.Subscribe(terminating{Callback: cb, done: func() { x.drop(r) }})
	return nil
}

// drop removes r after its source failed, if it is still registered.
func (x *Listeners) drop(r *registration) {
	i := slices.Index(x.entries, r)
	if i < 0 {
		return
	}
	x.entries = slices.Delete(x.entries, i, i+1)
	r.close()
}

// Remove removes the first registration of listener, compared by identity,
// reporting whether there was one.
func (x *Listeners) Remove(listener jsbind.Value) bool {
	i := slices.IndexFunc(x.entries, func(r *registration) bool {
		return r.listener.SameValue(listener)
	})
	if i < 0 {
		return false
	}
	r := x.entries[i]
	x.entries = slices.Delete(x.entries, i, i+1)
	r.close()
	return true
}

// RemoveAll removes every registration. Calling it again has no effect.
func (x *Listeners) RemoveAll() {
	entries := x.entries
	x.entries = nil
	for _, r := range entries {
		r.close()
	}
}

// Len returns the number of registrations.
func (x *Listeners) Len() int { return len(x.entries) }

// close unsubscribes, before releasing the references the subscription
// relied on.
func (r *registration) close() {
	r.token.Close()
	r.release()
	r.listener.Release()
}

// terminating removes its registration once the source has reported an
// error, no delivery following it.
type terminating struct {
	notify.Callback
	done func()
}

func (c terminating) Error(err error) {
	defer c.done()
	c.Callback.Error(err)
}

// simpleListener calls a function with the instance and a change set
// object, after each change.
type simpleListener struct {
	ctx    jsbind.Context
	this   *jsbind.Protected[jsbind.Value]
	fn     *jsbind.Protected[jsbind.Value]
	logger *logiface.Logger[logiface.Event]
}

func newSimpleListener(ctx jsbind.Context, this, fn jsbind.Value, logger *logiface.Logger[logiface.Event]) *simpleListener {
	return &simpleListener{
		ctx:    ctx,
		this:   jsbind.Protect(ctx, this),
		fn:     jsbind.Protect(ctx, fn),
		logger: logger,
	}
}

func (l *simpleListener) Before(notify.ChangeSet) {}

func (l *simpleListener) After(changes notify.ChangeSet) {
	this := l.this.Value()
	call(l.ctx, l.logger, "callback", l.fn.Value(), this, this, ChangeSetObject(l.ctx, changes))
}

// Error discards err, simple callbacks having no error channel.
func (l *simpleListener) Error(err error) {
	l.logger.Debug().
		Err(err).
		Log(`observable: change source failed, simple callback not notified`)
}

func (l *simpleListener) release() {
	l.fn.Release()
	l.this.Release()
}

// hookListener calls the hooks of a hook object. Absent hooks are nil.
type hookListener struct {
	ctx      jsbind.Context
	this     *jsbind.Protected[jsbind.Value]
	beforeFn *jsbind.Protected[jsbind.Value]
	afterFn  *jsbind.Protected[jsbind.Value]
	errorFn  *jsbind.Protected[jsbind.Value]
	logger   *logiface.Logger[logiface.Event]
}

func newHookListener(ctx jsbind.Context, this, hooks jsbind.Value, logger *logiface.Logger[logiface.Event]) (*hookListener, error) {
	obj, err := jsbind.ValidatedObject(ctx, hooks, "listener")
	if err != nil {
		return nil, err
	}
	var fns [3]*jsbind.Protected[jsbind.Value]
	for i, name := range [...]string{"before", "after", "error"} {
		v, err := ctx.GetProperty(obj, name)
		if err != nil {
			releaseAll(fns[:])
			return nil, err
		}
		if ctx.IsUndefined(v) {
			continue
		}
		if v, err = jsbind.ValidatedFunction(ctx, v, name); err != nil {
			releaseAll(fns[:])
			return nil, err
		}
		fns[i] = jsbind.Protect(ctx, v)
	}
	return &hookListener{
		ctx:      ctx,
		this:     jsbind.Protect(ctx, this),
		beforeFn: fns[0],
		afterFn:  fns[1],
		errorFn:  fns[2],
		logger:   logger,
	}, nil
}

func (l *hookListener) Before(changes notify.ChangeSet) {
	if l.beforeFn == nil {
		return
	}
	this := l.this.Value()
	call(l.ctx, l.logger, "before", l.beforeFn.Value(), this,
		this,
		indexArray(l.ctx, changes.Deletions),
		indexArray(l.ctx, changes.Modifications),
	)
}

func (l *hookListener) After(changes notify.ChangeSet) {
	if l.afterFn == nil {
		return
	}
	this := l.this.Value()
	call(l.ctx, l.logger, "after", l.afterFn.Value(), this,
		this,
		indexArray(l.ctx, changes.Insertions),
		indexArray(l.ctx, changes.ModificationsNew),
	)
}

func (l *hookListener) Error(err error) {
	if l.errorFn == nil {
		return
	}
	message := "unknown error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	this := l.this.Value()
	call(l.ctx, l.logger, "error", l.errorFn.Value(), this, this, l.ctx.FromString(message))
}

func (l *hookListener) release() {
	releaseAll([]*jsbind.Protected[jsbind.Value]{l.beforeFn, l.afterFn, l.errorFn, l.this})
}

func releaseAll(refs []*jsbind.Protected[jsbind.Value]) {
	for _, ref := range refs {
		if ref != nil {
			ref.Release()
		}
	}
}

// call invokes a listener function. A thrown exception is logged, and does
// not prevent delivery to other listeners.
func call(ctx jsbind.Context, logger *logiface.Logger[logiface.Event], hook string, fn, this jsbind.Value, args ...jsbind.Value) {
	if _, err := ctx.Call(fn, this, args...); err != nil {
		logger.Err().
			Str(`hook`, hook).
			Err(err).
			Log(`observable: listener threw`)
	}
}
