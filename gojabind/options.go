package gojabind

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
)

// binderOptions holds configuration for a [Binder].
type binderOptions struct {
	scheduler jsbind.Scheduler
	logger    *logiface.Logger[logiface.Event]
}

// Option configures a [Binder]. Options are applied during construction.
type Option interface {
	applyOption(*binderOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*binderOptions) error
}

func (o *optionFunc) applyOption(opts *binderOptions) error {
	return o.fn(opts)
}

// WithScheduler enables finalization of garbage collected instances. The
// scheduler must run tasks on the runtime's goroutine.
func WithScheduler(scheduler jsbind.Scheduler) Option {
	return &optionFunc{fn: func(opts *binderOptions) error {
		opts.scheduler = scheduler
		return nil
	}}
}

// WithEventLoop is [WithScheduler], using [LoopScheduler]. The binder's
// runtime must be the loop's runtime.
func WithEventLoop(loop *eventloop.EventLoop) Option {
	return &optionFunc{fn: func(opts *binderOptions) error {
		opts.scheduler = LoopScheduler(loop)
		return nil
	}}
}

// WithLogger configures the logger. Logging is disabled by default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *binderOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [binderOptions].
func resolveOptions(opts []Option) (*binderOptions, error) {
	cfg := &binderOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoopScheduler adapts loop to [jsbind.Scheduler]. Tasks run on the loop's
// goroutine, in submission order, and are rejected once the loop has been
// terminated.
func LoopScheduler(loop *eventloop.EventLoop) jsbind.Scheduler {
	if loop == nil {
		panic("gojabind: loop must not be nil")
	}
	return jsbind.SchedulerFunc(func(task func()) bool {
		return loop.RunOnLoop(func(*goja.Runtime) { task() })
	})
}
