package notify

import (
	"github.com/joeycumines/go-jsbind"
	"github.com/joeycumines/logiface"
)

// notifierOptions holds configuration for a [Notifier].
type notifierOptions struct {
	scheduler jsbind.Scheduler
	logger    *logiface.Logger[logiface.Event]
}

// Option configures a [Notifier].
type Option interface {
	applyOption(*notifierOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*notifierOptions) error
}

func (o *optionFunc) applyOption(opts *notifierOptions) error {
	return o.fn(opts)
}

// WithScheduler delivers notifications through scheduler, which must run
// tasks on the engine's thread in submission order. Without a scheduler,
// notifications are delivered synchronously by the publishing goroutine,
// which must then be the engine's thread.
func WithScheduler(scheduler jsbind.Scheduler) Option {
	return &optionFunc{fn: func(opts *notifierOptions) error {
		opts.scheduler = scheduler
		return nil
	}}
}

// WithLogger configures the logger, used to report rejected deliveries and
// panicking callbacks. Logging is disabled by default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *notifierOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [notifierOptions].
func resolveOptions(opts []Option) (*notifierOptions, error) {
	cfg := &notifierOptions{}
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
