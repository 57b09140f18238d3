// Package taskrunner implements the serial, run-to-completion scheduler for
// short Task work units: strict input-queue order, one task executing at a
// time, and parent/child succession onto the same queued list.
//
// Structurally a simplification of processrunner.Runner (no pause/resume,
// no priority budget, no deferred reclamation — a task's slot is freed the
// moment its terminal hook fires), grounded on the same eventloop.Loop
// shape the ProcessRunner borrows from.
package taskrunner

import (
	"log"
	"sync"

	"github.com/joeycumines/corework/corelog"
	"github.com/joeycumines/corework/internal/squeue"
	"github.com/joeycumines/corework/task"
	"github.com/joeycumines/corework/workunit"
)

const (
	listQueued  = 1
	listRunning = 2
)

type msgKind int

const (
	msgClearAllWaiting msgKind = iota
	msgTerminateRunner
)

type message struct {
	kind msgKind
}

type taskEntry struct {
	t *task.Task
}

// Stats is a point-in-time snapshot of a Runner's internal occupancy.
type Stats struct {
	Free, Queued, Running         int
	InputQueueLen, MessageQueueLen int
	State                          RunnerState
}

// Runner is a TaskRunner: a single worker goroutine that executes admitted
// Tasks strictly one at a time, in admission order.
type Runner struct {
	cfg   config
	state fastState

	mu      sync.Mutex
	cond    *sync.Cond
	started bool

	inputQueue *squeue.Ring[*task.Task]
	msgQueue   *squeue.Ring[message]
	pool       *squeue.Pool[taskEntry]

	idxMu sync.RWMutex
	index map[workunit.ID]int32
}

// New constructs a Runner. The worker goroutine is not started until Run is
// called.
func New(opts ...Option) *Runner {
	cfg := resolveOptions(opts)
	r := &Runner{
		cfg:        cfg,
		inputQueue: squeue.NewRing[*task.Task](cfg.inputQueueSize),
		msgQueue:   squeue.NewRing[message](cfg.msgQueueSize),
		pool:       squeue.NewPool[taskEntry](cfg.slotCapacity, 3),
		index:      make(map[workunit.ID]int32, cfg.slotCapacity),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// QueueTask pushes t into the bounded input queue, returning t itself on
// success (mirroring the reference-echoing contract of the original
// queue_task) or nil on refusal.
func (r *Runner) QueueTask(t *task.Task) *task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state.load()
	if s != Running && s != NotStarted {
		return nil
	}
	if !r.inputQueue.Push(t) {
		corelog.Warning(r.cfg.logger, "input queue full, task dropped", corelog.Str("name", t.Name()))
		return nil
	}
	r.cond.Signal()
	corelog.Debug(r.cfg.logger, "task queued", corelog.Str("name", t.Name()))
	return t
}

func (r *Runner) pushMessage(m message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ok := r.msgQueue.Push(m)
	if ok {
		r.cond.Signal()
	}
	return ok
}

// ClearAllWaitingTasks drops the current input queue and everything queued
// (but not the currently executing task), terminating and signalling each.
func (r *Runner) ClearAllWaitingTasks() bool {
	return r.pushMessage(message{kind: msgClearAllWaiting})
}

// TerminateTaskRunner requests the runner wind down.
func (r *Runner) TerminateTaskRunner() bool {
	r.mu.Lock()
	if r.state.cas(NotStarted, Terminated) {
		r.cond.Broadcast()
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()
	return r.pushMessage(message{kind: msgTerminateRunner})
}

// GetTask looks up an admitted (queued or running) task by id.
func (r *Runner) GetTask(id workunit.ID) (*task.Task, bool) {
	r.idxMu.RLock()
	idx, ok := r.index[id]
	r.idxMu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.pool.Value(idx).t, true
}

func (r *Runner) indexSet(id workunit.ID, idx int32) {
	r.idxMu.Lock()
	r.index[id] = idx
	r.idxMu.Unlock()
}

func (r *Runner) indexDelete(id workunit.ID) {
	r.idxMu.Lock()
	delete(r.index, id)
	r.idxMu.Unlock()
}

// Run starts the worker goroutine.
func (r *Runner) Run() (RunnerState, error) {
	if !r.state.cas(NotStarted, Running) {
		s := r.state.load()
		if s == Terminated {
			return s, ErrTerminated
		}
		return s, ErrAlreadyRunning
	}
	go r.loop()
	return Running, nil
}

// WaitUntilStarted blocks until the worker goroutine has begun its loop.
func (r *Runner) WaitUntilStarted() {
	r.mu.Lock()
	for !r.started {
		r.cond.Wait()
	}
	r.mu.Unlock()
}

// WaitForTermination blocks until the runner has fully torn down.
func (r *Runner) WaitForTermination() bool {
	r.mu.Lock()
	for r.state.load() != Terminated {
		r.cond.Wait()
	}
	r.mu.Unlock()
	return true
}

// Stats returns a point-in-time snapshot.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Free:            r.pool.Len(squeue.ListFree),
		Queued:          r.pool.Len(listQueued),
		Running:         r.pool.Len(listRunning),
		InputQueueLen:   r.inputQueue.Len(),
		MessageQueueLen: r.msgQueue.Len(),
		State:           r.state.load(),
	}
}

func (r *Runner) loop() {
	r.mu.Lock()
	r.started = true
	r.cond.Broadcast()
	r.mu.Unlock()

	for {
		r.drainMessages()
		r.admissionPass()
		r.pickOne()
		r.executeStep()

		r.mu.Lock()
		empty := r.inputQueue.Empty() && r.msgQueue.Empty() &&
			r.pool.Len(listQueued) == 0 && r.pool.Len(listRunning) == 0
		if empty {
			if r.state.load() != Running {
				r.mu.Unlock()
				break
			}
			for r.inputQueue.Empty() && r.msgQueue.Empty() &&
				r.pool.Len(listQueued) == 0 && r.pool.Len(listRunning) == 0 &&
				r.state.load() == Running {
				r.cond.Wait()
			}
		}
		r.mu.Unlock()
	}

	r.teardown()
}

func (r *Runner) drainMessages() {
	for {
		r.mu.Lock()
		m, ok := r.msgQueue.Pop()
		r.mu.Unlock()
		if !ok {
			return
		}
		r.handleMessage(m)
	}
}

func (r *Runner) handleMessage(m message) {
	switch m.kind {
	case msgClearAllWaiting:
		r.clearWaitingEffect()
	case msgTerminateRunner:
		r.clearWaitingEffect()
		r.dropRunningEffect()
		r.state.cas(Running, WillTerminate)
	}
}

func (r *Runner) clearWaitingEffect() {
	r.mu.Lock()
	r.inputQueue.DrainFunc(func(t *task.Task) {
		t.Terminate()
	})
	r.mu.Unlock()

	r.pool.Walk(listQueued, func(idx int32) {
		entry := r.pool.Value(idx)
		entry.t.Terminate()
		safeCall("on_termination", func() { entry.t.CallOnTermination() })
		r.indexDelete(entry.t.ID())
		r.pool.Free(idx)
	})
}

func (r *Runner) dropRunningEffect() {
	r.pool.Walk(listRunning, func(idx int32) {
		entry := r.pool.Value(idx)
		entry.t.Terminate()
		safeCall("on_termination", func() { entry.t.CallOnTermination() })
		r.indexDelete(entry.t.ID())
		r.pool.Free(idx)
	})
}

func (r *Runner) admissionPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for !r.inputQueue.Empty() && r.pool.Len(squeue.ListFree) > 0 {
		t, _ := r.inputQueue.Pop()
		idx, ok := r.pool.Alloc(listQueued, taskEntry{t: t})
		if !ok {
			break
		}
		r.indexSet(t.ID(), idx)
		corelog.Debug(r.cfg.logger, "task admitted", corelog.Str("name", t.Name()))
	}
}

// pickOne moves the head of the queued list into the single running slot,
// if nothing is currently running.
func (r *Runner) pickOne() {
	if r.pool.Len(listRunning) > 0 {
		return
	}
	idx, ok := r.pool.Front(listQueued)
	if !ok {
		return
	}
	r.pool.MoveToBack(idx, listRunning)
}

func (r *Runner) executeStep() {
	idx, ok := r.pool.Front(listRunning)
	if !ok {
		return
	}
	entry := r.pool.Value(idx)
	t := entry.t

	if !t.Initialized() {
		safeCall("on_initialize", func() { t.CallOnInitialize() })
		t.SetInitialized(true)
	}

	t.CompareAndSwapState(task.NotStarted, task.Running)
	if t.State() == task.Running {
		safeRun(t)
	}

	switch t.State() {
	case task.Terminated:
		safeCall("on_termination", func() { t.CallOnTermination() })
		r.cancelChild(t)
	case task.Succeeded:
		safeCall("on_success", func() { t.CallOnSuccess() })
		r.admitChildOrCancel(t)
	case task.Failed:
		safeCall("on_failure", func() { t.CallOnFailure() })
		r.cancelChild(t)
	default:
		// Workload returned without reaching a dead state: treat as a
		// programmer error in the workload, not a runner concern; the
		// slot is still cleared so the runner makes progress.
		log.Printf("WARNING: taskrunner: task %q run() returned without a terminal state", t.Name())
	}

	t.MarkRemoved()
	r.indexDelete(t.ID())
	r.pool.Free(idx)
}

func (r *Runner) cancelChild(t *task.Task) {
	if !t.HasChild() {
		return
	}
	child := t.TakeChild()
	child.Terminate()
	safeCall("on_termination(child)", func() { child.CallOnTermination() })
}

func (r *Runner) admitChildOrCancel(t *task.Task) {
	if !t.HasChild() {
		return
	}
	child := t.Child()
	if idx, ok := r.pool.Alloc(listQueued, taskEntry{t: child}); ok {
		t.TakeChild()
		r.indexSet(child.ID(), idx)
		corelog.Debug(r.cfg.logger, "child task admitted", corelog.Str("name", child.Name()))
		return
	}
	// No free slot: the child cannot be queued behind its parent's
	// completion, so it is cancelled rather than silently leaked.
	child = t.TakeChild()
	child.Terminate()
	safeCall("on_termination(child)", func() { child.CallOnTermination() })
}

func (r *Runner) teardown() {
	r.mu.Lock()
	r.state.store(Terminated)
	r.inputQueue.DrainFunc(func(t *task.Task) { t.Terminate() })
	r.msgQueue.DrainFunc(func(message) {})
	r.pool.Walk(listQueued, func(idx int32) { r.pool.Value(idx).t.Terminate() })
	r.pool.Walk(listRunning, func(idx int32) { r.pool.Value(idx).t.Terminate() })
	r.cond.Broadcast()
	r.mu.Unlock()
}

func safeCall(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR: taskrunner: %s hook panicked: %v", name, rec)
		}
	}()
	fn()
}

func safeRun(t *task.Task) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR: taskrunner: task %q panicked during run: %v", t.Name(), rec)
			t.Fail()
		}
	}()
	t.Run()
}
