// Package notify defines the collection change notifications consumed by
// the observable bridge: [ChangeSet] values made of [IndexSet] positions,
// the [Source] subscription interface, and the [Token] owning each
// subscription.
//
// [Notifier] is an in-process [Source]. Producers on any goroutine publish
// change sets through it, and it delivers them to subscribers on the
// engine's thread, via a [jsbind.Scheduler].
package notify
