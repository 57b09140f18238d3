// Package process defines Process, the long-lived resumable work unit run by
// a ProcessRunner.
package process

import (
	"github.com/joeycumines/corework/workunit"
)

// State is the subset of workunit.State reachable by a Process:
// NotStarted -> Running <-> Paused -> {Terminated|Succeeded|Failed} ->
// WillBeRemoved -> Removed.
type State = workunit.State

const (
	NotStarted    = workunit.NotStarted
	Running       = workunit.Running
	Paused        = workunit.Paused
	Terminated    = workunit.Terminated
	Succeeded     = workunit.Succeeded
	Failed        = workunit.Failed
	WillBeRemoved = workunit.WillBeRemoved
	Removed       = workunit.Removed
)

// Workload is implemented by application code that wants to run on a
// ProcessRunner. The scheduler invokes Run once per tick while the process is
// Running, and invokes the On* hooks at the precise transitions named in the
// ProcessRunner scheduling algorithm; Run itself must never call them.
//
// Run receives the effective per-tick budget (base budget * priority *
// modifier) as a scheduling weight, not a wall-clock duration, and drives its
// own state transitions by calling Succeed, Fail, or Terminate on the
// *Process, or simply returning to stay Running.
type Workload interface {
	Run(p *Process, budget int32)
}

// Hooks is an optional interface a Workload may additionally implement to
// observe lifecycle transitions. Every method is a no-op if unimplemented.
type Hooks interface {
	OnInitialize(p *Process)
	OnPause(p *Process)
	OnResume(p *Process)
	OnSuccess(p *Process)
	OnFailure(p *Process)
	OnTermination(p *Process)
}

// Process is a long-lived, resumable work unit with pause/resume, a
// priority-weighted tick budget, and parent/child succession.
type Process struct {
	workunit.Base[*Process]

	workload Workload
	hooks    Hooks // nil if the workload does not implement Hooks
}

// New constructs a Process with the given name and workload. The returned
// Process has one reference (the caller's); queuing it onto a runner does
// not take an additional reference — the runner is the sole owner once
// admitted.
func New(name string, workload Workload) *Process {
	p := &Process{workload: workload}
	p.Init(name)
	if h, ok := workload.(Hooks); ok {
		p.hooks = h
	}
	return p
}

// Workload returns the process's workload.
func (p *Process) Workload() Workload { return p.workload }

// Run invokes the workload for one tick. Only called by the runner while
// State() == Running.
func (p *Process) Run(budget int32) {
	p.workload.Run(p, budget)
}

func (p *Process) callOnInitialize() {
	if p.hooks != nil {
		p.hooks.OnInitialize(p)
	}
}

func (p *Process) callOnPause() {
	if p.hooks != nil {
		p.hooks.OnPause(p)
	}
}

func (p *Process) callOnResume() {
	if p.hooks != nil {
		p.hooks.OnResume(p)
	}
}

func (p *Process) callOnSuccess() {
	if p.hooks != nil {
		p.hooks.OnSuccess(p)
	}
}

func (p *Process) callOnFailure() {
	if p.hooks != nil {
		p.hooks.OnFailure(p)
	}
}

func (p *Process) callOnTermination() {
	if p.hooks != nil {
		p.hooks.OnTermination(p)
	}
}

// CallOnInitialize is exported for processrunner's sweep to invoke; it is
// not part of the Workload contract.
func (p *Process) CallOnInitialize() { p.callOnInitialize() }
func (p *Process) CallOnPause()      { p.callOnPause() }
func (p *Process) CallOnResume()     { p.callOnResume() }
func (p *Process) CallOnSuccess()    { p.callOnSuccess() }
func (p *Process) CallOnFailure()    { p.callOnFailure() }
func (p *Process) CallOnTermination() { p.callOnTermination() }

// Succeed transitions Running -> Succeeded. No-op if not Running.
func (p *Process) Succeed() {
	p.CompareAndSwapState(Running, Succeeded)
}

// Fail transitions Running -> Failed. No-op if not Running.
func (p *Process) Fail() {
	p.CompareAndSwapState(Running, Failed)
}

// Terminate transitions to Terminated iff alive (NotStarted, Running, or
// Paused); otherwise a no-op. Safe to call concurrently with an in-progress
// Run: the workload observes it via State() on its next check.
func (p *Process) Terminate() {
	for {
		s := p.State()
		if s != NotStarted && s != Running && s != Paused {
			return
		}
		if p.CompareAndSwapState(s, Terminated) {
			return
		}
	}
}

// Pause transitions Running -> Paused. No-op otherwise.
func (p *Process) Pause() bool {
	return p.CompareAndSwapState(Running, Paused)
}

// Resume transitions Paused -> Running. No-op otherwise.
func (p *Process) Resume() bool {
	return p.CompareAndSwapState(Paused, Running)
}

// MarkForRemoval sets WillBeRemoved unconditionally.
func (p *Process) MarkForRemoval() {
	p.setStateUnconditional(WillBeRemoved)
}

// MarkRemoved sets Removed unconditionally.
func (p *Process) MarkRemoved() {
	p.setStateUnconditional(Removed)
}

func (p *Process) setStateUnconditional(s State) {
	for {
		old := p.State()
		if p.CompareAndSwapState(old, s) {
			return
		}
	}
}

// AttachChild attaches c as the process's only child, detaching any prior
// child (its parent link is cleared).
func (p *Process) AttachChild(c *Process) {
	p.Base.AttachChild(p, c,
		func(prior *Process) { prior.ClearParentLink() },
		func(child *Process, parent *Process) { child.SetParentLink(parent) },
	)
}

// TakeChild transfers ownership of the child out, clearing both links.
func (p *Process) TakeChild() *Process {
	return p.Base.TakeChild(func(c *Process) { c.ClearParentLink() })
}

// DetachChild drops the child reference and clears both links.
func (p *Process) DetachChild() {
	p.Base.DetachChild(func(c *Process) { c.ClearParentLink() })
}
