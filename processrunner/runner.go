// Package processrunner implements the time-sliced round-robin scheduler
// for long-lived, resumable Process work units: pause/resume,
// priority-weighted per-tick budgets, and parent/child succession on a
// single worker goroutine per Runner.
//
// Grounded on the teacher's eventloop.Loop: the run/tick/sweep/shutdown loop
// shape, the atomic runner-level state machine, the functional-options
// construction pattern, and the panic-safe, log.Printf-based recovery around
// workload execution are all adapted from that package.
package processrunner

import (
	"log"
	"sync"

	"github.com/joeycumines/corework/corelog"
	"github.com/joeycumines/corework/internal/squeue"
	"github.com/joeycumines/corework/process"
	"github.com/joeycumines/corework/workunit"
)

const (
	listRunning = 1
	listPaused  = 2
	listRemoved = 3
)

type msgKind int

const (
	msgTerminateProcess msgKind = iota
	msgPauseProcess
	msgResumeProcess
	msgTerminateAll
	msgTerminateRunner
)

type message struct {
	kind msgKind
	id   workunit.ID
}

type procEntry struct {
	proc      *process.Process
	hookFired bool
}

// Stats is a point-in-time snapshot of a Runner's internal slot/queue
// occupancy, for operator visibility. It has no bearing on scheduling
// semantics.
type Stats struct {
	Free, Running, Paused, Removed int
	InputQueueLen, MessageQueueLen int
	State                          RunnerState
}

// Runner is a ProcessRunner: a single worker goroutine that time-slices a
// fixed-capacity set of admitted Processes in round-robin order.
type Runner struct {
	cfg   config
	state fastState

	mu      sync.Mutex
	cond    *sync.Cond
	started bool

	inputQueue *squeue.Ring[*process.Process]
	msgQueue   *squeue.Ring[message]
	pool       *squeue.Pool[procEntry]

	idxMu sync.RWMutex
	index map[workunit.ID]int32
}

// New constructs a Runner. The worker goroutine is not started until Run is
// called.
func New(opts ...Option) *Runner {
	cfg := resolveOptions(opts)
	r := &Runner{
		cfg:        cfg,
		inputQueue: squeue.NewRing[*process.Process](cfg.inputQueueSize),
		msgQueue:   squeue.NewRing[message](cfg.msgQueueSize),
		pool:       squeue.NewPool[procEntry](cfg.slotCapacity, 4),
		index:      make(map[workunit.ID]int32, cfg.slotCapacity),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// QueueProcess pushes p into the bounded input queue. Fails (false) if the
// queue is full or the runner is past NotStarted/Running. On failure the
// caller's reference is simply not retained by the runner.
func (r *Runner) QueueProcess(p *process.Process) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state.load()
	if s != Running && s != NotStarted {
		return false
	}
	ok := r.inputQueue.Push(p)
	if ok {
		r.cond.Signal()
		corelog.Debug(r.cfg.logger, "process queued", corelog.Str("name", p.Name()))
	} else {
		corelog.Warning(r.cfg.logger, "input queue full, process dropped", corelog.Str("name", p.Name()))
	}
	return ok
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

// PauseProcess enqueues a pause control message for id.
func (r *Runner) PauseProcess(id workunit.ID) bool {
	return r.pushMessage(message{kind: msgPauseProcess, id: id})
}

// ResumeProcess enqueues a resume control message for id.
func (r *Runner) ResumeProcess(id workunit.ID) bool {
	return r.pushMessage(message{kind: msgResumeProcess, id: id})
}

// TerminateProcess enqueues a terminate control message for id.
func (r *Runner) TerminateProcess(id workunit.ID) bool {
	return r.pushMessage(message{kind: msgTerminateProcess, id: id})
}

// TerminateAllProcesses enqueues a terminate-all control message.
func (r *Runner) TerminateAllProcesses() bool {
	return r.pushMessage(message{kind: msgTerminateAll})
}

// TerminateRunner requests the runner wind down. If the worker has not
// started yet, the runner state transitions directly to Terminated (there
// is no worker to drain the message); otherwise a control message is
// enqueued and honored before the next tick.
func (r *Runner) TerminateRunner() bool {
	r.mu.Lock()
	if r.state.cas(NotStarted, Terminated) {
		r.cond.Broadcast()
		r.mu.Unlock()
		return true
	}
	r.mu.Unlock()
	return r.pushMessage(message{kind: msgTerminateRunner})
}

// GetProcess looks up an admitted process by id through the runner's index.
func (r *Runner) GetProcess(id workunit.ID) (*process.Process, bool) {
	r.idxMu.RLock()
	idx, ok := r.index[id]
	r.idxMu.RUnlock()
	if !ok {
		return nil, false
	}
	return r.pool.Value(idx).proc, true
}

func (r *Runner) indexSet(id workunit.ID, idx int32) {
	r.idxMu.Lock()
	r.index[id] = idx
	r.idxMu.Unlock()
}

func (r *Runner) indexGet(id workunit.ID) (int32, bool) {
	r.idxMu.RLock()
	idx, ok := r.index[id]
	r.idxMu.RUnlock()
	return idx, ok
}

func (r *Runner) indexDelete(id workunit.ID) {
	r.idxMu.Lock()
	delete(r.index, id)
	r.idxMu.Unlock()
}

// Run starts the worker goroutine. Returns ErrAlreadyRunning if already
// started, ErrTerminated if already torn down.
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

// WaitUntilStarted blocks until the worker goroutine has begun its sweep
// loop.
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

// Stats returns a point-in-time snapshot of slot/queue occupancy.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Free:            r.pool.Len(squeue.ListFree),
		Running:         r.pool.Len(listRunning),
		Paused:          r.pool.Len(listPaused),
		Removed:         r.pool.Len(listRemoved),
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
		r.reclaimPass()
		r.admissionPass()
		r.drainMessages()
		r.tickPass()

		r.mu.Lock()
		empty := r.inputQueue.Empty() && r.msgQueue.Empty() &&
			r.pool.Len(listRunning) == 0 && r.pool.Len(listRemoved) == 0
		if empty {
			if r.state.load() != Running {
				r.mu.Unlock()
				break
			}
			for r.inputQueue.Empty() && r.msgQueue.Empty() &&
				r.pool.Len(listRunning) == 0 && r.pool.Len(listRemoved) == 0 &&
				r.state.load() == Running {
				r.cond.Wait()
			}
		}
		r.mu.Unlock()
	}

	r.teardown()
}

func (r *Runner) reclaimPass() {
	var toFree []int32
	r.pool.Walk(listRemoved, func(idx int32) {
		if r.pool.Countdown(idx) <= 0 {
			toFree = append(toFree, idx)
		} else {
			r.pool.DecrementCountdown(idx)
		}
	})
	for _, idx := range toFree {
		r.pool.Value(idx).proc.MarkRemoved()
		r.pool.Free(idx)
	}
}

func (r *Runner) admissionPass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for !r.inputQueue.Empty() && r.pool.Len(squeue.ListFree) > 0 {
		p, _ := r.inputQueue.Pop()
		idx, ok := r.pool.Alloc(listRunning, procEntry{proc: p})
		if !ok {
			break
		}
		p.CompareAndSwapState(process.NotStarted, process.Running)
		r.indexSet(p.ID(), idx)
		corelog.Debug(r.cfg.logger, "process admitted", corelog.Str("name", p.Name()))
	}
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
	case msgTerminateProcess:
		idx, ok := r.indexGet(m.id)
		if !ok {
			return
		}
		if r.pool.List(idx) == listPaused {
			r.pool.MoveToBack(idx, listRunning)
		}
		r.pool.Value(idx).proc.Terminate()
	case msgPauseProcess:
		idx, ok := r.indexGet(m.id)
		if !ok {
			return
		}
		entry := r.pool.Value(idx)
		if entry.proc.Pause() {
			safeCall("on_pause", func() { entry.proc.CallOnPause() })
			r.pool.MoveToBack(idx, listPaused)
			corelog.Debug(r.cfg.logger, "process paused", corelog.Str("name", entry.proc.Name()))
		}
	case msgResumeProcess:
		idx, ok := r.indexGet(m.id)
		if !ok {
			return
		}
		entry := r.pool.Value(idx)
		if entry.proc.Resume() {
			safeCall("on_resume", func() { entry.proc.CallOnResume() })
			r.pool.MoveToBack(idx, listRunning)
			corelog.Debug(r.cfg.logger, "process resumed", corelog.Str("name", entry.proc.Name()))
		}
	case msgTerminateAll:
		r.terminateAllEffect()
	case msgTerminateRunner:
		r.terminateAllEffect()
		r.state.cas(Running, WillTerminate)
	}
}

func (r *Runner) terminateAllEffect() {
	r.mu.Lock()
	r.inputQueue.DrainFunc(func(p *process.Process) { p.Terminate() })
	r.mu.Unlock()

	r.pool.Walk(listRunning, func(idx int32) {
		r.pool.Value(idx).proc.Terminate()
	})
	r.pool.Walk(listPaused, func(idx int32) {
		r.pool.MoveToBack(idx, listRunning)
		r.pool.Value(idx).proc.Terminate()
	})
}

func (r *Runner) tickPass() {
	r.pool.Walk(listRunning, func(idx int32) {
		entry := r.pool.Value(idx)
		p := entry.proc

		if !p.Initialized() {
			safeCall("on_initialize", func() { p.CallOnInitialize() })
			p.SetInitialized(true)
		}

		if p.State() == process.Running {
			budget := p.EffectiveBudget(r.cfg.baseBudget)
			safeRun(p, budget)
		}

		if !p.State().IsDead() {
			return
		}

		if !entry.hookFired {
			entry.hookFired = true
			switch p.State() {
			case process.Terminated:
				safeCall("on_termination", func() { p.CallOnTermination() })
				r.cancelChild(p)
			case process.Failed:
				safeCall("on_failure", func() { p.CallOnFailure() })
				r.cancelChild(p)
			case process.Succeeded:
				safeCall("on_success", func() { p.CallOnSuccess() })
			}
		}

		if p.State() == process.Succeeded && p.HasChild() {
			child := p.Child()
			if cidx, ok := r.pool.Alloc(listRunning, procEntry{proc: child}); ok {
				p.TakeChild()
				child.CompareAndSwapState(process.NotStarted, process.Running)
				r.indexSet(child.ID(), cidx)
				r.moveToRemoved(idx, p)
			}
			// else: no free slot; retry admission next sweep.
			return
		}

		r.moveToRemoved(idx, p)
	})
}

func (r *Runner) cancelChild(p *process.Process) {
	if !p.HasChild() {
		return
	}
	child := p.TakeChild()
	child.Terminate()
	safeCall("on_termination(child)", func() { child.CallOnTermination() })
}

func (r *Runner) moveToRemoved(idx int32, p *process.Process) {
	p.MarkForRemoval()
	r.pool.MoveToBack(idx, listRemoved)
	r.pool.SetCountdown(idx, 1)
	r.indexDelete(p.ID())
	corelog.Debug(r.cfg.logger, "process removed", corelog.Str("name", p.Name()), corelog.Str("state", p.State().String()))
}

func (r *Runner) teardown() {
	r.mu.Lock()
	r.state.store(Terminated)
	r.inputQueue.DrainFunc(func(p *process.Process) { p.Terminate() })
	r.msgQueue.DrainFunc(func(message) {})
	r.pool.Walk(listRunning, func(idx int32) { r.pool.Value(idx).proc.Terminate() })
	r.pool.Walk(listPaused, func(idx int32) { r.pool.Value(idx).proc.Terminate() })
	r.cond.Broadcast()
	r.mu.Unlock()
}

func safeCall(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR: processrunner: %s hook panicked: %v", name, rec)
		}
	}()
	fn()
}

func safeRun(p *process.Process, budget int32) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ERROR: processrunner: process %q panicked during run: %v", p.Name(), rec)
			p.Fail()
		}
	}()
	p.Run(budget)
}
