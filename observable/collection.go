package observable

import (
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/go-jsbind/notify"
)

// CollectionClass is the superclass of observable collection classes. Its
// instances own an [Observable], and removing every listener is part of
// their finalization.
var CollectionClass = &jsbind.ClassDescriptor[Observable]{
	Name: "Collection",
	Methods: []jsbind.Method[Observable]{
		{Name: "addListener", Func: addListener},
		{Name: "removeListener", Func: removeListener},
		{Name: "removeAllListeners", Func: removeAllListeners},
	},
	Finalizer: func(self Observable) {
		self.Listeners().RemoveAll()
	},
}

func addListener(ctx jsbind.Context, this jsbind.Value, self Observable, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
	if err := args.ValidateCount(1); err != nil {
		return err
	}
	return self.Listeners().Add(ctx, this, args.Get(0))
}

func removeListener(ctx jsbind.Context, this jsbind.Value, self Observable, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
	if err := args.ValidateCount(1); err != nil {
		return err
	}
	self.Listeners().Remove(args.Get(0))
	return nil
}

func removeAllListeners(ctx jsbind.Context, this jsbind.Value, self Observable, args jsbind.Arguments, ret *jsbind.ReturnValue) error {
	if err := args.ValidateCount(0); err != nil {
		return err
	}
	self.Listeners().RemoveAll()
	return nil
}

// ChangeSetObject builds the object passed to simple callbacks, holding the
// deletions, insertions and modifications of changes as arrays of ascending
// indices.
func ChangeSetObject(ctx jsbind.Context, changes notify.ChangeSet) jsbind.Value {
	obj := ctx.NewObject()
	for _, field := range [...]struct {
		name    string
		indices notify.IndexSet
	}{
		{"deletions", changes.Deletions},
		{"insertions", changes.Insertions},
		{"modifications", changes.Modifications},
	} {
		// setting properties of a fresh plain object cannot fail
		_ = ctx.SetProperty(obj, field.name, indexArray(ctx, field.indices))
	}
	return obj
}

func indexArray(ctx jsbind.Context, indices notify.IndexSet) jsbind.Value {
	values := make([]jsbind.Value, 0, indices.Len())
	for i := range indices.Indexes() {
		values = append(values, ctx.FromNumber(float64(i)))
	}
	return ctx.NewArray(values)
}
