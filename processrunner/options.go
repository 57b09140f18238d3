package processrunner

import "github.com/joeycumines/corework/corelog"

// Option configures a Runner at construction time. Grounded on the
// teacher's eventloop.LoopOption functional-options pattern.
type Option interface {
	apply(*config)
}

type config struct {
	slotCapacity   int
	inputQueueSize int
	msgQueueSize   int
	baseBudget     int32
	logger         corelog.Logger
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithSlotCapacity sets the fixed number of concurrently-admitted processes.
// Default 64.
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

// WithBaseBudget sets the per-tick base budget multiplied by a process's
// priority*modifier to produce its effective scheduling weight. Default 1.
func WithBaseBudget(n int32) Option {
	return optionFunc(func(c *config) { c.baseBudget = n })
}

// WithLogger attaches a structured lifecycle logger. Default is a no-op
// logger.
func WithLogger(l corelog.Logger) Option {
	return optionFunc(func(c *config) { c.logger = l })
}

func resolveOptions(opts []Option) config {
	c := config{
		slotCapacity:   64,
		msgQueueSize:   256,
		baseBudget:     1,
		logger:         corelog.Nop(),
	}
	for _, o := range opts {
		o.apply(&c)
	}
	if c.inputQueueSize <= 0 {
		c.inputQueueSize = c.slotCapacity
	}
	return c
}
