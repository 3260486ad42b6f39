package gojabind

import (
	"bytes"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	rt  *goja.Runtime
	b   *Binder
	log *syncBuffer
}

// syncBuffer is a log destination safe for the cleanup goroutine.
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

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	buf := &syncBuffer{}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(buf), stumpy.WithTimeField("")),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
	rt := goja.New()
	b, err := New(rt, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, b.Define(rt.GlobalObject(), baseClass, middleClass, leafClass, listClass, dictClass, mathClass, opaqueClass))
	return &testEnv{rt: rt, b: b, log: buf}
}

func (e *testEnv) logged(s string) bool {
	return strings.Contains(e.log.String(), s)
}

func (e *testEnv) run(t *testing.T, code string) goja.Value {
	t.Helper()
	v, err := e.rt.RunString(code)
	require.NoError(t, err)
	return v
}

func (e *testEnv) mustFail(t *testing.T, code string) {
	t.Helper()
	_, err := e.rt.RunString(code)
	require.Error(t, err)
}

// mustThrow runs code, which must throw an exception whose string form
// contains want.
func (e *testEnv) mustThrow(t *testing.T, code, want string) *goja.Exception {
	t.Helper()
	_, err := e.rt.RunString(code)
	require.Error(t, err)
	var ex *goja.Exception
	require.ErrorAs(t, err, &ex)
	require.Contains(t, ex.Value().String(), want)
	return ex
}

// node is the native object of the Base, Middle and Leaf classes.
type node struct {
	name      string
	finalized *[]string
}

func newNodeClass(name string, parent jsbind.Class) *jsbind.ClassDescriptor[*node] {
	return &jsbind.ClassDescriptor[*node]{
		Name:       name,
		Superclass: parent,
		Finalizer: func(self *node) {
			*self.finalized = append(*self.finalized, name)
		},
	}
}

var (
	// finalizedNodes is shared by every node constructed from scripts.
	finalizedNodes []string

	baseClass = func() *jsbind.ClassDescriptor[*node] {
		d := newNodeClass("Base", nil)
		d.Methods = []jsbind.Method[*node]{
			{Name: "describe", Func: func(ctx jsbind.Context, this jsbind.Value, self *node, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
				ret.SetString("node " + self.name)
				return nil
			}},
		}
		d.Properties = []jsbind.Property[*node]{
			{Name: "name", Get: func(ctx jsbind.Context, this jsbind.Value, self *node, ret *jsbind.ReturnValue) error {
				ret.SetString(self.name)
				return nil
			}},
		}
		return d
	}()

	middleClass = newNodeClass("Middle", baseClass)

	leafClass = func() *jsbind.ClassDescriptor[*node] {
		d := newNodeClass("Leaf", middleClass)
		d.Constructor = func(ctx jsbind.Context, this jsbind.Value, args jsbind.Arguments) (*node, error) {
			if err := args.ValidateCount(1); err != nil {
				return nil, err
			}
			name, err := ctx.ToString(args.Get(0))
			if err != nil {
				return nil, err
			}
			if name == "panic" {
				panic("constructor panicked")
			}
			return &node{name: name, finalized: &finalizedNodes}, nil
		}
		d.Methods = []jsbind.Method[*node]{
			{Name: "leafOnly", Func: func(ctx jsbind.Context, this jsbind.Value, self *node, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
				ret.SetBool(true)
				return nil
			}},
		}
		return d
	}()
)

// list is the native object of the List class, an array of numbers with a
// label.
type list struct {
	items []float64
	label string
	id    float64
}

func (l *list) get(index uint32) (float64, error) {
	if int(index) >= len(l.items) {
		return 0, &jsbind.OutOfRangeError{Index: index, Length: uint32(len(l.items))}
	}
	return l.items[index], nil
}

var listClass = &jsbind.ClassDescriptor[*list]{
	Name: "List",
	Constructor: func(ctx jsbind.Context, this jsbind.Value, args jsbind.Arguments) (*list, error) {
		l := &list{id: 7}
		for _, v := range args.Values() {
			n, err := ctx.ToNumber(v)
			if err != nil {
				return nil, err
			}
			l.items = append(l.items, n)
		}
		return l, nil
	},
	Methods: []jsbind.Method[*list]{
		{Name: "push", Func: func(ctx jsbind.Context, this jsbind.Value, self *list, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
			if err := args.ValidateCount(1); err != nil {
				return err
			}
			n, err := ctx.ToNumber(args.Get(0))
			if err != nil {
				return err
			}
			self.items = append(self.items, n)
			ret.SetNumber(float64(len(self.items)))
			return nil
		}},
		{Name: "fail", Func: func(ctx jsbind.Context, this jsbind.Value, self *list, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
			panic("list failure")
		}},
		{Name: "each", Func: func(ctx jsbind.Context, this jsbind.Value, self *list, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
			fn, err := jsbind.ValidatedFunction(ctx, args.Get(0), "callback")
			if err != nil {
				return err
			}
			for _, item := range slices.Clone(self.items) {
				if _, err := ctx.Call(fn, this, ctx.FromNumber(item)); err != nil {
					return err
				}
			}
			return nil
		}},
	},
	Properties: []jsbind.Property[*list]{
		{Name: "length", Get: func(ctx jsbind.Context, this jsbind.Value, self *list, ret *jsbind.ReturnValue) error {
			ret.SetNumber(float64(len(self.items)))
			return nil
		}},
		{Name: "id", Get: func(ctx jsbind.Context, this jsbind.Value, self *list, ret *jsbind.ReturnValue) error {
			ret.SetNumber(self.id)
			return nil
		}},
		{
			Name: "label",
			Get: func(ctx jsbind.Context, this jsbind.Value, self *list, ret *jsbind.ReturnValue) error {
				ret.SetString(self.label)
				return nil
			},
			Set: func(ctx jsbind.Context, this jsbind.Value, self *list, value jsbind.Value) error {
				s, err := ctx.ToString(value)
				if err != nil {
					return err
				}
				self.label = s
				return nil
			},
		},
	},
	IndexAccessor: &jsbind.IndexAccessor[*list]{
		Get: func(ctx jsbind.Context, this jsbind.Value, self *list, index uint32, ret *jsbind.ReturnValue) error {
			n, err := self.get(index)
			if err != nil {
				return err
			}
			ret.SetNumber(n)
			return nil
		},
		Set: func(ctx jsbind.Context, this jsbind.Value, self *list, index uint32, value jsbind.Value) (bool, error) {
			if int(index) > len(self.items) {
				return false, nil
			}
			n, err := ctx.ToNumber(value)
			if err != nil {
				return false, err
			}
			if int(index) == len(self.items) {
				self.items = append(self.items, n)
			} else {
				self.items[index] = n
			}
			return true, nil
		},
	},
}

// frozenListClass has an index getter, but no setter.
var frozenListClass = &jsbind.ClassDescriptor[*list]{
	Name: "FrozenList",
	IndexAccessor: &jsbind.IndexAccessor[*list]{
		Get: listClass.IndexAccessor.Get,
	},
	Properties: []jsbind.Property[*list]{listClass.Properties[0]},
}

// dict is the native object of the Dict class, a string map exposed by name.
type dict struct {
	values map[string]string
}

var dictClass = &jsbind.ClassDescriptor[*dict]{
	Name: "Dict",
	Constructor: func(ctx jsbind.Context, this jsbind.Value, args jsbind.Arguments) (*dict, error) {
		return &dict{values: map[string]string{}}, nil
	},
	StringAccessor: &jsbind.StringAccessor[*dict]{
		Get: func(ctx jsbind.Context, this jsbind.Value, self *dict, name string, ret *jsbind.ReturnValue) error {
			if v, ok := self.values[name]; ok {
				ret.SetString(v)
			}
			return nil
		},
		Set: func(ctx jsbind.Context, this jsbind.Value, self *dict, name string, value jsbind.Value) (bool, error) {
			// only strings are stored natively
			if _, ok := value.(goja.Value).Export().(string); !ok {
				return false, nil
			}
			s, err := ctx.ToString(value)
			if err != nil {
				return false, err
			}
			self.values[name] = s
			return true, nil
		},
		Enumerate: func(ctx jsbind.Context, this jsbind.Value, self *dict) ([]string, error) {
			keys := make([]string, 0, len(self.values))
			for k := range self.values {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			return keys, nil
		},
	},
}

// mathClass has static members only.
var mathClass = &jsbind.ClassDescriptor[any]{
	Name: "MathUtil",
	StaticMethods: []jsbind.StaticMethod{
		{Name: "add", Func: func(ctx jsbind.Context, this jsbind.Value, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
			if err := args.ValidateCount(2); err != nil {
				return err
			}
			a, err := ctx.ToNumber(args.Get(0))
			if err != nil {
				return err
			}
			b, err := ctx.ToNumber(args.Get(1))
			if err != nil {
				return err
			}
			ret.SetNumber(a + b)
			return nil
		}},
	},
	StaticProperties: []jsbind.StaticProperty{
		{Name: "version", Get: func(ctx jsbind.Context, this jsbind.Value, ret *jsbind.ReturnValue) error {
			ret.SetString("1.0")
			return nil
		}},
	},
}

// opaqueClass has no constructor and no static members.
var opaqueClass = &jsbind.ClassDescriptor[any]{
	Name: "Opaque",
}
