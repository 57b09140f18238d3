package asyncio

import (
	"fmt"
	"sync"

	"github.com/joeycumines/corework/taskrunner"
)

// IOManager owns the single TaskRunner backing every AsyncStream submitted
// through it. Grounded on original_source/include/core/io/iomanager.h, which
// models a process-wide singleton that must be explicitly initialized and
// torn down rather than lazily constructed: a call to IOManagerInstance
// before InitIOManager is a programmer error.
type IOManager struct {
	runner *taskrunner.Runner
}

var (
	ioManagerMu       sync.Mutex
	ioManagerInstance *IOManager
)

// InitIOManager constructs the process-wide IOManager and starts its
// backing TaskRunner. Calling it twice without an intervening
// ShutdownIOManager is an error, matching the original's debug-warn on
// double-initialization.
func InitIOManager(opts ...taskrunner.Option) error {
	ioManagerMu.Lock()
	defer ioManagerMu.Unlock()
	if ioManagerInstance != nil {
		return fmt.Errorf("asyncio: IOManager already initialized")
	}
	r := taskrunner.New(opts...)
	if _, err := r.Run(); err != nil {
		return fmt.Errorf("asyncio: starting IOManager task runner: %w", err)
	}
	r.WaitUntilStarted()
	ioManagerInstance = &IOManager{runner: r}
	return nil
}

// ShutdownIOManager terminates the backing TaskRunner and clears the
// singleton. A no-op if the manager was never initialized.
func ShutdownIOManager() {
	ioManagerMu.Lock()
	inst := ioManagerInstance
	ioManagerInstance = nil
	ioManagerMu.Unlock()
	if inst == nil {
		return
	}
	inst.runner.TerminateTaskRunner()
	inst.runner.WaitForTermination()
}

// IOManagerInstance returns the process-wide IOManager. It panics if called
// before InitIOManager, per the original's assertion that using the
// singleton before initialization is a programmer error, not a recoverable
// condition.
func IOManagerInstance() *IOManager {
	ioManagerMu.Lock()
	defer ioManagerMu.Unlock()
	if ioManagerInstance == nil {
		panic("asyncio: IOManagerInstance called before InitIOManager")
	}
	return ioManagerInstance
}

// NewAsyncStream wraps in/out to submit work onto this manager's runner.
func (m *IOManager) NewAsyncStream(in InputStream, out OutputStream) *AsyncStream {
	return NewAsyncStream(in, out, m.runner)
}

// Runner exposes the backing TaskRunner for diagnostics (e.g. Stats()).
func (m *IOManager) Runner() *taskrunner.Runner { return m.runner }
