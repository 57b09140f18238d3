package manager

import "github.com/joeycumines/corework/corelog"

// ManagerOption configures a ProcessManager or TaskManager at construction
// time.
type ManagerOption interface {
	apply(*managerConfig)
}

type managerConfig struct {
	logger corelog.Logger
}

type managerOptionFunc func(*managerConfig)

func (f managerOptionFunc) apply(c *managerConfig) { f(c) }

// WithManagerLogger attaches a structured lifecycle logger for
// create/terminate-runner events. Default is a no-op logger.
func WithManagerLogger(l corelog.Logger) ManagerOption {
	return managerOptionFunc(func(c *managerConfig) { c.logger = l })
}

func resolveManagerOptions(opts []ManagerOption) managerConfig {
	c := managerConfig{logger: corelog.Nop()}
	for _, o := range opts {
		o.apply(&c)
	}
	return c
}
