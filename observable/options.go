package observable

import (
	"github.com/joeycumines/logiface"
)

// listenersOptions holds configuration for [Listeners].
type listenersOptions struct {
	logger *logiface.Logger[logiface.Event]
}

// Option configures [Listeners].
type Option interface {
	applyOption(*listenersOptions) error
}

// optionFunc implements [Option] via a closure.
type optionFunc struct {
	fn func(*listenersOptions) error
}

func (o *optionFunc) applyOption(opts *listenersOptions) error {
	return o.fn(opts)
}

// WithLogger configures the logger receiving listener failures, which are
// otherwise discarded.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionFunc{fn: func(opts *listenersOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies the given options to a default [listenersOptions].
func resolveOptions(opts []Option) (*listenersOptions, error) {
	cfg := &listenersOptions{}
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
