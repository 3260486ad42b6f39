package notify

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
)

// Notifier is an in-process [Source]. Change sets published with
// [Notifier.Notify] are delivered to every subscription active at delivery
// time, in subscription order: all Before calls, then all After calls.
//
// Notify and Fail may be called from any goroutine. Deliveries go through
// the configured [jsbind.Scheduler], so they run on the engine's thread, in
// publication order.
type Notifier struct {
	scheduler jsbind.Scheduler
	logger    *logiface.Logger[logiface.Event]

	mu   sync.Mutex
	subs []*subscription
}

type subscription struct {
	cb     Callback
	active atomic.Bool
}

var _ Source = (*Notifier)(nil)

// NewNotifier creates a [Notifier].
func NewNotifier(opts ...Option) (*Notifier, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	return &Notifier{
		scheduler: cfg.scheduler,
		logger:    cfg.logger,
	}, nil
}

// Subscribe implements [Source].
func (n *Notifier) Subscribe(cb Callback) *Token {
	if cb == nil {
		panic("notify: callback must not be nil")
	}
	sub := &subscription{cb: cb}
	sub.active.Store(true)

	n.mu.Lock()
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	return NewToken(func() {
		sub.active.Store(false)
		n.mu.Lock()
		defer n.mu.Unlock()
		if i := slices.Index(n.subs, sub); i >= 0 {
			n.subs = slices.Delete(n.subs, i, i+1)
		}
	})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Notify publishes changes. Empty change sets are dropped. It reports false
// if the scheduler rejected the delivery.
func (n *Notifier) Notify(changes ChangeSet) bool {
	if changes.Empty() {
		return true
	}
	return n.dispatch(func() {
		subs := n.snapshot()
		for _, sub := range subs {
			if sub.active.Load() {
				n.invoke(func() { sub.cb.Before(changes) })
			}
		}
		for _, sub := range subs {
			if sub.active.Load() {
				n.invoke(func() { sub.cb.After(changes) })
			}
		}
	})
}

// Fail reports a failure of change detection. Every subscription active at
// delivery time receives err once, and is then dropped. It reports false if
// the scheduler rejected the delivery.
func (n *Notifier) Fail(err error) bool {
	return n.dispatch(func() {
		n.mu.Lock()
		subs := n.subs
		n.subs = nil
		n.mu.Unlock()
		for _, sub := range subs {
			if sub.active.CompareAndSwap(true, false) {
				n.invoke(func() { sub.cb.Error(err) })
			}
		}
	})
}

func (n *Notifier) snapshot() []*subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.subs)
}

func (n *Notifier) dispatch(task func()) bool {
	if n.scheduler == nil {
		task()
		return true
	}
	if !n.scheduler.Schedule(task) {
		n.logger.Warning().Log(`notify: delivery rejected by scheduler`)
		return false
	}
	return true
}

// invoke shields the delivery loop from a panicking callback.
func (n *Notifier) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Err().
				Err(&jsbind.PanicError{Value: r}).
				Log(`notify: callback panicked`)
		}
	}()
	fn()
}
