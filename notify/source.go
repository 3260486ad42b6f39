package notify

import (
	"sync"
)

// Callback receives the notifications of one subscription. For each change
// set, Before is called with the pre-change state still observable, then
// After. Error reports a failure of the change detection itself, and is
// the last call a subscription receives.
type Callback interface {
	Before(changes ChangeSet)
	After(changes ChangeSet)
	Error(err error)
}

// AfterFunc adapts a function to a [Callback] interested only in completed
// changes. Errors are discarded.
type AfterFunc func(changes ChangeSet)

func (f AfterFunc) Before(ChangeSet) {}

func (f AfterFunc) After(changes ChangeSet) { f(changes) }

func (f AfterFunc) Error(error) {}

// Source produces change notifications for one collection.
type Source interface {
	// Subscribe registers cb, returning the token owning the subscription.
	// Deliveries for one token never overlap and are never reordered.
	Subscribe(cb Callback) *Token
}

// Token owns a subscription. Closing it unsubscribes: no delivery starts
// afterwards, though one already in progress is not interrupted.
type Token struct {
	once        sync.Once
	unsubscribe func()
}

// NewToken returns a token running unsubscribe when first closed.
func NewToken(unsubscribe func()) *Token {
	return &Token{unsubscribe: unsubscribe}
}

// Close unsubscribes. It is safe to call more than once, and on a nil token.
func (t *Token) Close() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		if t.unsubscribe != nil {
			t.unsubscribe()
		}
	})
}
