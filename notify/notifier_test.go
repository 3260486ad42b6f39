package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// recorder is a Callback logging every call.
type recorder struct {
	name  string
	calls *[]string
}

func (r recorder) Before(changes ChangeSet) {
	*r.calls = append(*r.calls, r.name+" before "+changes.Deletions.String())
}

func (r recorder) After(changes ChangeSet) {
	*r.calls = append(*r.calls, r.name+" after "+changes.Insertions.String())
}

func (r recorder) Error(err error) {
	*r.calls = append(*r.calls, r.name+" error "+err.Error())
}

func newNotifier(t *testing.T, opts ...Option) *Notifier {
	t.Helper()
	n, err := NewNotifier(opts...)
	require.NoError(t, err)
	return n
}

func TestNotifier_beforeThenAfter(t *testing.T) {
	n := newNotifier(t)
	var calls []string
	n.Subscribe(recorder{name: "a", calls: &calls})
	n.Subscribe(recorder{name: "b", calls: &calls})

	require.True(t, n.Notify(ChangeSet{Deletions: IndexSetOf(2), Insertions: IndexSetOf(0, 1)}))
	require.Equal(t, []string{
		"a before [2]",
		"b before [2]",
		"a after [0-1]",
		"b after [0-1]",
	}, calls)
}

func TestNotifier_emptyDropped(t *testing.T) {
	n := newNotifier(t)
	var calls []string
	n.Subscribe(recorder{name: "a", calls: &calls})
	require.True(t, n.Notify(ChangeSet{}))
	require.Empty(t, calls)
}

func TestNotifier_tokenClose(t *testing.T) {
	n := newNotifier(t)
	var calls []string
	a := n.Subscribe(recorder{name: "a", calls: &calls})
	n.Subscribe(recorder{name: "b", calls: &calls})
	require.Equal(t, 2, n.Len())

	a.Close()
	a.Close()
	require.Equal(t, 1, n.Len())

	n.Notify(ChangeSet{Insertions: IndexSetOf(0)})
	require.Equal(t, []string{"b before []", "b after [0]"}, calls)

	var nilToken *Token
	nilToken.Close()
}

func TestNotifier_closeDuringDelivery(t *testing.T) {
	n := newNotifier(t)
	var calls []string
	var b *Token
	n.Subscribe(AfterFunc(func(ChangeSet) {
		calls = append(calls, "a")
		b.Close()
	}))
	b = n.Subscribe(AfterFunc(func(ChangeSet) {
		calls = append(calls, "b")
	}))
	n.Notify(ChangeSet{Insertions: IndexSetOf(0)})
	require.Equal(t, []string{"a"}, calls)
	require.Equal(t, 1, n.Len())
}

func TestNotifier_Fail(t *testing.T) {
	n := newNotifier(t)
	var calls []string
	n.Subscribe(recorder{name: "a", calls: &calls})
	n.Subscribe(AfterFunc(func(ChangeSet) { calls = append(calls, "simple") }))

	require.True(t, n.Fail(errors.New("detection failed")))
	require.Equal(t, []string{"a error detection failed"}, calls)
	require.Zero(t, n.Len())

	n.Notify(ChangeSet{Insertions: IndexSetOf(0)})
	n.Fail(errors.New("again"))
	require.Equal(t, []string{"a error detection failed"}, calls)
}

func TestNotifier_panicLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField("")),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	n := newNotifier(t, WithLogger(logger))
	var calls []string
	n.Subscribe(AfterFunc(func(ChangeSet) { panic("boom") }))
	n.Subscribe(recorder{name: "b", calls: &calls})

	n.Notify(ChangeSet{Insertions: IndexSetOf(3)})
	require.Equal(t, []string{"b before []", "b after [3]"}, calls)
	require.Contains(t, buf.String(), `callback panicked`)
	require.Contains(t, buf.String(), `boom`)
}

func TestNotifier_scheduler(t *testing.T) {
	var (
		mu    sync.Mutex
		tasks []func()
	)
	sched := jsbind.SchedulerFunc(func(task func()) bool {
		mu.Lock()
		defer mu.Unlock()
		tasks = append(tasks, task)
		return true
	})
	n := newNotifier(t, WithScheduler(sched))
	var got []string
	n.Subscribe(AfterFunc(func(c ChangeSet) { got = append(got, c.Insertions.String()) }))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.Notify(ChangeSet{Insertions: IndexSetOf(0)})
		n.Notify(ChangeSet{Insertions: IndexSetOf(1)})
	}()
	wg.Wait()
	require.Empty(t, got)

	mu.Lock()
	pending := tasks
	mu.Unlock()
	require.Len(t, pending, 2)
	for _, task := range pending {
		task()
	}
	require.Equal(t, []string{"[0]", "[1]"}, got)
}

func TestNotifier_schedulerRejected(t *testing.T) {
	n := newNotifier(t, WithScheduler(jsbind.SchedulerFunc(func(func()) bool { return false })))
	n.Subscribe(AfterFunc(func(ChangeSet) { t.Fatal("unexpected delivery") }))
	require.False(t, n.Notify(ChangeSet{Insertions: IndexSetOf(0)}))
	require.False(t, n.Fail(errors.New("x")))
}

func TestNotifier_Subscribe_nil(t *testing.T) {
	n := newNotifier(t)
	require.PanicsWithValue(t, "notify: callback must not be nil", func() { n.Subscribe(nil) })
}

func TestNewNotifier_nilOption(t *testing.T) {
	n, err := NewNotifier(nil)
	require.NoError(t, err)
	require.NotNil(t, n)
}
