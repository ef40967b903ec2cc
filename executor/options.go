package executor

import "time"

// config holds the resolved configuration shared by Executor and Reactor
// construction.
type config struct {
	logger             Logger
	reactorPollTimeout time.Duration
}

// Option configures an Executor or Reactor at construction time.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithLogger overrides the logger used for scheduling, task-failure, and
// reactor diagnostics. The default logger writes JSON to stderr at the
// Informational level.
func WithLogger(l Logger) Option {
	return optionFunc(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithReactorPollTimeout sets how long the elected Worker blocks in
// Reactor.RunOnce when the ReadyQueue is empty. A negative duration blocks
// until at least one descriptor becomes ready; the default is 50ms, short
// enough that a task scheduled via Wake from outside the reactor is picked
// up promptly.
func WithReactorPollTimeout(d time.Duration) Option {
	return optionFunc(func(c *config) { c.reactorPollTimeout = d })
}

func resolveOptions(opts []Option) *config {
	cfg := &config{
		logger:             defaultLogger,
		reactorPollTimeout: 50 * time.Millisecond,
	}
	for _, o := range opts {
		if o != nil {
			o.apply(cfg)
		}
	}
	return cfg
}
