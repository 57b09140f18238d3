package manager

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joeycumines/corework/corelog"
	"github.com/joeycumines/corework/task"
	"github.com/joeycumines/corework/taskrunner"
	"github.com/joeycumines/corework/workunit"
)

type taskRunnerEntry struct {
	runner     *taskrunner.Runner
	instanceID uuid.UUID
}

// TaskManager is a fixed-capacity, name-indexed registry of
// taskrunner.Runner instances, additionally offering an untargeted
// QueueTask that places a task on the first registered runner with room.
type TaskManager struct {
	mu       sync.RWMutex
	capacity int
	runners  map[string]*taskRunnerEntry
	order    []string // registration order, for untargeted QueueTask fan-out
	logger   corelog.Logger
}

// NewTaskManager constructs a manager with a fixed maximum number of
// distinct named runners.
func NewTaskManager(capacity int, opts ...ManagerOption) *TaskManager {
	cfg := resolveManagerOptions(opts)
	return &TaskManager{
		capacity: capacity,
		runners:  make(map[string]*taskRunnerEntry, capacity),
		logger:   cfg.logger,
	}
}

// CreateRunner registers a new named runner. Fails if name already exists
// or capacity is exhausted.
func (m *TaskManager) CreateRunner(name string, opts ...taskrunner.Option) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runners[name]; exists {
		return false
	}
	if len(m.runners) >= m.capacity {
		return false
	}
	m.runners[name] = &taskRunnerEntry{
		runner:     taskrunner.New(opts...),
		instanceID: uuid.New(),
	}
	m.order = append(m.order, name)
	corelog.Info(m.logger, "task runner created", corelog.Str("name", name))
	return true
}

// StartAll calls Run and WaitUntilStarted on every registered runner.
func (m *TaskManager) StartAll() {
	m.mu.RLock()
	entries := make([]*taskRunnerEntry, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(e *taskRunnerEntry) {
			defer wg.Done()
			_, _ = e.runner.Run()
			e.runner.WaitUntilStarted()
		}(e)
	}
	wg.Wait()
}

func (m *TaskManager) lookup(name string) (*taskrunner.Runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.runners[name]
	if !ok {
		return nil, false
	}
	return e.runner, true
}

// QueueTaskOn forwards t to the named runner.
func (m *TaskManager) QueueTaskOn(runnerName string, t *task.Task) *task.Task {
	r, ok := m.lookup(runnerName)
	if !ok {
		return nil
	}
	return r.QueueTask(t)
}

// QueueTask iterates the registered runners in registration order and
// places t on the first whose input queue is not full. Returns nil if every
// runner is full (or none are registered); the task is then dropped.
func (m *TaskManager) QueueTask(t *task.Task) *task.Task {
	m.mu.RLock()
	names := append([]string(nil), m.order...)
	runners := make(map[string]*taskrunner.Runner, len(m.runners))
	for name, e := range m.runners {
		runners[name] = e.runner
	}
	m.mu.RUnlock()

	for _, name := range names {
		r := runners[name]
		if queued := r.QueueTask(t); queued != nil {
			return queued
		}
	}
	return nil
}

// GetTask looks up a task by id on a specific runner.
func (m *TaskManager) GetTask(runnerName string, id workunit.ID) (*task.Task, bool) {
	r, ok := m.lookup(runnerName)
	if !ok {
		return nil, false
	}
	return r.GetTask(id)
}

// GetTaskByID scans every runner for id.
func (m *TaskManager) GetTaskByID(id workunit.ID) (*task.Task, bool) {
	m.mu.RLock()
	entries := make([]*taskrunner.Runner, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e.runner)
	}
	m.mu.RUnlock()
	for _, r := range entries {
		if t, ok := r.GetTask(id); ok {
			return t, true
		}
	}
	return nil, false
}

// TerminateRunner requests shutdown of the named runner.
func (m *TaskManager) TerminateRunner(name string) bool {
	r, ok := m.lookup(name)
	if !ok {
		return false
	}
	return r.TerminateTaskRunner()
}

// TerminateAllRunners requests shutdown of every registered runner.
func (m *TaskManager) TerminateAllRunners() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.runners {
		e.runner.TerminateTaskRunner()
	}
}

// WaitForAllTerminated blocks until every registered runner reports
// Terminated.
func (m *TaskManager) WaitForAllTerminated() bool {
	m.mu.RLock()
	entries := make([]*taskrunner.Runner, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e.runner)
	}
	m.mu.RUnlock()
	for _, r := range entries {
		r.WaitForTermination()
	}
	return true
}

// RunnerNames returns the names of every registered runner.
func (m *TaskManager) RunnerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// RunnerStats returns the named runner's occupancy snapshot.
func (m *TaskManager) RunnerStats(name string) (taskrunner.Stats, bool) {
	r, ok := m.lookup(name)
	if !ok {
		return taskrunner.Stats{}, false
	}
	return r.Stats(), true
}
