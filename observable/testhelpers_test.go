package observable_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/go-jsbind/gojabind"
	"github.com/joeycumines/go-jsbind/notify"
	"github.com/joeycumines/go-jsbind/observable"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// observedList is an observable collection of strings.
type observedList struct {
	items     []string
	listeners *observable.Listeners
}

func (l *observedList) Listeners() *observable.Listeners { return l.listeners }

// newListClass declares a collection class whose instances observe source.
func newListClass(source notify.Source, opts ...observable.Option) *jsbind.ClassDescriptor[*observedList] {
	return &jsbind.ClassDescriptor[*observedList]{
		Name:       "ObservedList",
		Superclass: observable.CollectionClass,
		Constructor: func(ctx jsbind.Context, this jsbind.Value, args jsbind.Arguments) (*observedList, error) {
			listeners, err := observable.NewListeners(source, opts...)
			if err != nil {
				return nil, err
			}
			return &observedList{listeners: listeners}, nil
		},
		Properties: []jsbind.Property[*observedList]{
			{Name: "listenerCount", Get: func(ctx jsbind.Context, this jsbind.Value, self *observedList, ret *jsbind.ReturnValue) error {
				ret.SetNumber(float64(self.listeners.Len()))
				return nil
			}},
		},
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	rt       *goja.Runtime
	b        *gojabind.Binder
	notifier *notify.Notifier
	log      *syncBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	buf := &syncBuffer{}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(buf), stumpy.WithTimeField("")),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
	notifier, err := notify.NewNotifier(notify.WithLogger(logger))
	require.NoError(t, err)
	rt := goja.New()
	b, err := gojabind.New(rt, gojabind.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, b.Define(rt.GlobalObject(), newListClass(notifier, observable.WithLogger(logger))))
	return &testEnv{rt: rt, b: b, notifier: notifier, log: buf}
}

func (e *testEnv) run(t *testing.T, code string) goja.Value {
	t.Helper()
	v, err := e.rt.RunString(code)
	require.NoError(t, err)
	return v
}

// json evaluates code, returning the JSON of its result.
func (e *testEnv) json(t *testing.T, code string) string {
	t.Helper()
	return e.run(t, `JSON.stringify((() => { return `+code+` })())`).String()
}

func (e *testEnv) mustThrow(t *testing.T, code, want string) {
	t.Helper()
	_, err := e.rt.RunString(code)
	require.Error(t, err)
	require.Contains(t, err.Error(), want)
}

func changes(deletions, insertions, modifications, modificationsNew []uint64) notify.ChangeSet {
	return notify.ChangeSet{
		Deletions:        notify.IndexSetOf(deletions...),
		Insertions:       notify.IndexSetOf(insertions...),
		Modifications:    notify.IndexSetOf(modifications...),
		ModificationsNew: notify.IndexSetOf(modificationsNew...),
	}
}
