// Package observable bridges native collection change notifications to
// scripting listeners.
//
// A native collection implements [Observable], owning a [Listeners] bound to
// its [notify.Source]. Its class declares [CollectionClass] as superclass,
// which gives every instance addListener, removeListener and
// removeAllListeners. Two listener protocols are supported, decided once
// when the listener is added:
//
//	// simple callback
//	list.addListener((list, changes) => {
//	    changes.deletions     // [2]
//	    changes.insertions    // [0, 1]
//	    changes.modifications // []
//	})
//
//	// hook object, every hook optional
//	list.addListener({
//	    before(list, deletions, modifications) {},
//	    after(list, insertions, modificationsNew) {},
//	    error(list, message) {},
//	})
//
// Failures of the change source reach only error hooks. Simple callbacks have
// no error channel.
package observable
