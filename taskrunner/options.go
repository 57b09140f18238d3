package taskrunner

import "github.com/joeycumines/corework/corelog"

// Option configures a Runner at construction time.
type Option interface {
	apply(*config)
}

type config struct {
	slotCapacity   int
	inputQueueSize int
	msgQueueSize   int
	logger         corelog.Logger
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithSlotCapacity sets the fixed number of queued+running tasks. Default
// 64.
func WithSlotCapacity(n int) Option {
	return optionFunc(func(c *config) { c.slotCapacity = n })
}

// WithInputQueueSize sets the bounded input-queue capacity. Default equals
// the slot capacity.
func WithInputQueueSize(n int) Option {
	return optionFunc(func(c *config) { c.inputQueueSize = n })
}

// WithMessageQueueSize sets the bounded control-message-queue capacity.
// Default 256.
func WithMessageQueueSize(n int) Option {
	return optionFunc(func(c *config) { c.msgQueueSize = n })
}

// WithLogger attaches a structured lifecycle logger. Default is a no-op
// logger.
func WithLogger(l corelog.Logger) Option {
	return optionFunc(func(c *config) { c.logger = l })
}

func resolveOptions(opts []Option) config {
	c := config{
		slotCapacity: 64,
		msgQueueSize: 256,
		logger:       corelog.Nop(),
	}
	for _, o := range opts {
		o.apply(&c)
	}
	if c.inputQueueSize <= 0 {
		c.inputQueueSize = c.slotCapacity
	}
	return c
}
