// Package manager implements ProcessManager and TaskManager: fixed-fanout
// registries that multiplex external requests to named runners.
//
// Grounded on the original_source C++ headers
// include/core/threading/processmanager.h and
// include/core/threading/taskmanager.h: both are thin fixed-capacity
// registries over runners, with search-all variants for id-only lookups.
package manager

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joeycumines/corework/corelog"
	"github.com/joeycumines/corework/process"
	"github.com/joeycumines/corework/processrunner"
	"github.com/joeycumines/corework/workunit"
)

type processRunnerEntry struct {
	runner     *processrunner.Runner
	instanceID uuid.UUID
}

// ProcessManager is a fixed-capacity, name-indexed registry of
// processrunner.Runner instances.
type ProcessManager struct {
	mu       sync.RWMutex
	capacity int
	runners  map[string]*processRunnerEntry
	logger   corelog.Logger
}

// NewProcessManager constructs a manager with a fixed maximum number of
// distinct named runners.
func NewProcessManager(capacity int, opts ...ManagerOption) *ProcessManager {
	cfg := resolveManagerOptions(opts)
	return &ProcessManager{
		capacity: capacity,
		runners:  make(map[string]*processRunnerEntry, capacity),
		logger:   cfg.logger,
	}
}

// CreateRunner registers a new named runner. Fails if name already exists
// or capacity is exhausted.
func (m *ProcessManager) CreateRunner(name string, opts ...processrunner.Option) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runners[name]; exists {
		return false
	}
	if len(m.runners) >= m.capacity {
		return false
	}
	m.runners[name] = &processRunnerEntry{
		runner:     processrunner.New(opts...),
		instanceID: uuid.New(),
	}
	corelog.Info(m.logger, "process runner created", corelog.Str("name", name))
	return true
}

// StartAll calls Run and WaitUntilStarted on every registered runner.
func (m *ProcessManager) StartAll() {
	m.mu.RLock()
	entries := make([]*processRunnerEntry, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(e *processRunnerEntry) {
			defer wg.Done()
			_, _ = e.runner.Run()
			e.runner.WaitUntilStarted()
		}(e)
	}
	wg.Wait()
}

func (m *ProcessManager) lookup(name string) (*processrunner.Runner, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.runners[name]
	if !ok {
		return nil, false
	}
	return e.runner, true
}

// QueueProcess forwards p to the named runner. False if the runner is
// unknown or its input queue refused p.
func (m *ProcessManager) QueueProcess(runnerName string, p *process.Process) bool {
	r, ok := m.lookup(runnerName)
	if !ok {
		return false
	}
	return r.QueueProcess(p)
}

// PauseProcess, ResumeProcess, TerminateProcess forward targeted control
// messages to the named runner. False if the runner is unknown.
func (m *ProcessManager) PauseProcess(runnerName string, id workunit.ID) bool {
	r, ok := m.lookup(runnerName)
	if !ok {
		return false
	}
	return r.PauseProcess(id)
}

func (m *ProcessManager) ResumeProcess(runnerName string, id workunit.ID) bool {
	r, ok := m.lookup(runnerName)
	if !ok {
		return false
	}
	return r.ResumeProcess(id)
}

func (m *ProcessManager) TerminateProcess(runnerName string, id workunit.ID) bool {
	r, ok := m.lookup(runnerName)
	if !ok {
		return false
	}
	return r.TerminateProcess(id)
}

// GetProcess looks up a process by id on a specific runner.
func (m *ProcessManager) GetProcess(runnerName string, id workunit.ID) (*process.Process, bool) {
	r, ok := m.lookup(runnerName)
	if !ok {
		return nil, false
	}
	return r.GetProcess(id)
}

// GetProcessByID scans every runner for id, returning the first match.
func (m *ProcessManager) GetProcessByID(id workunit.ID) (*process.Process, bool) {
	m.mu.RLock()
	entries := make([]*processrunner.Runner, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e.runner)
	}
	m.mu.RUnlock()
	for _, r := range entries {
		if p, ok := r.GetProcess(id); ok {
			return p, true
		}
	}
	return nil, false
}

// PauseProcessByID, ResumeProcessByID, TerminateProcessByID scan every
// runner and issue the control message to whichever holds id. False if no
// runner holds it.
func (m *ProcessManager) PauseProcessByID(id workunit.ID) bool {
	return m.dispatchByID(id, func(r *processrunner.Runner) bool { return r.PauseProcess(id) })
}

func (m *ProcessManager) ResumeProcessByID(id workunit.ID) bool {
	return m.dispatchByID(id, func(r *processrunner.Runner) bool { return r.ResumeProcess(id) })
}

func (m *ProcessManager) TerminateProcessByID(id workunit.ID) bool {
	return m.dispatchByID(id, func(r *processrunner.Runner) bool { return r.TerminateProcess(id) })
}

func (m *ProcessManager) dispatchByID(id workunit.ID, fn func(*processrunner.Runner) bool) bool {
	m.mu.RLock()
	entries := make([]*processrunner.Runner, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e.runner)
	}
	m.mu.RUnlock()
	for _, r := range entries {
		if _, ok := r.GetProcess(id); ok {
			return fn(r)
		}
	}
	return false
}

// TerminateRunner requests shutdown of the named runner. False if unknown.
func (m *ProcessManager) TerminateRunner(name string) bool {
	r, ok := m.lookup(name)
	if !ok {
		return false
	}
	return r.TerminateRunner()
}

// TerminateAllRunners requests shutdown of every registered runner.
func (m *ProcessManager) TerminateAllRunners() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.runners {
		e.runner.TerminateRunner()
	}
}

// WaitForAllTerminated blocks until every registered runner reports
// Terminated.
func (m *ProcessManager) WaitForAllTerminated() bool {
	m.mu.RLock()
	entries := make([]*processrunner.Runner, 0, len(m.runners))
	for _, e := range m.runners {
		entries = append(entries, e.runner)
	}
	m.mu.RUnlock()
	for _, r := range entries {
		r.WaitForTermination()
	}
	return true
}

// RunnerNames returns the names of every registered runner, for CLI/status
// use.
func (m *ProcessManager) RunnerNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.runners))
	for name := range m.runners {
		names = append(names, name)
	}
	return names
}

// RunnerStats returns the named runner's occupancy snapshot.
func (m *ProcessManager) RunnerStats(name string) (processrunner.Stats, bool) {
	r, ok := m.lookup(name)
	if !ok {
		return processrunner.Stats{}, false
	}
	return r.Stats(), true
}
