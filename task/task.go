// Package task defines Task, the run-to-completion work unit run by a
// TaskRunner.
package task

import (
	"github.com/joeycumines/corework/workunit"
)

// State is the subset of workunit.State reachable by a Task:
// NotStarted -> Running -> {Terminated|Succeeded|Failed} -> Removed.
type State = workunit.State

const (
	NotStarted = workunit.NotStarted
	Running    = workunit.Running
	Terminated = workunit.Terminated
	Succeeded  = workunit.Succeeded
	Failed     = workunit.Failed
	Removed    = workunit.Removed
)

// Workload is implemented by application code that wants to run on a
// TaskRunner. Run executes to completion in one call (no budget, no
// re-entry) and drives the task's own terminal state by calling Succeed,
// Fail, or Terminate on the *Task.
type Workload interface {
	Run(t *Task)
}

// Hooks mirrors process.Hooks for tasks. Every method is a no-op if the
// workload does not implement it.
type Hooks interface {
	OnInitialize(t *Task)
	OnSuccess(t *Task)
	OnFailure(t *Task)
	OnTermination(t *Task)
}

// Task is a short, run-to-completion work unit with no pause/resume and no
// priority budget.
type Task struct {
	workunit.Base[*Task]

	workload Workload
	hooks    Hooks
}

// New constructs a Task with the given name and workload.
func New(name string, workload Workload) *Task {
	t := &Task{workload: workload}
	t.Init(name)
	if h, ok := workload.(Hooks); ok {
		t.hooks = h
	}
	return t
}

// Workload returns the task's workload.
func (t *Task) Workload() Workload { return t.workload }

// Run invokes the workload to completion. Only called by the runner while
// State() == Running.
func (t *Task) Run() {
	t.workload.Run(t)
}

func (t *Task) CallOnInitialize() {
	if t.hooks != nil {
		t.hooks.OnInitialize(t)
	}
}

func (t *Task) CallOnSuccess() {
	if t.hooks != nil {
		t.hooks.OnSuccess(t)
	}
}

func (t *Task) CallOnFailure() {
	if t.hooks != nil {
		t.hooks.OnFailure(t)
	}
}

func (t *Task) CallOnTermination() {
	if t.hooks != nil {
		t.hooks.OnTermination(t)
	}
}

// Succeed transitions Running -> Succeeded. No-op if not Running.
func (t *Task) Succeed() {
	t.CompareAndSwapState(Running, Succeeded)
}

// Fail transitions Running -> Failed. No-op if not Running.
func (t *Task) Fail() {
	t.CompareAndSwapState(Running, Failed)
}

// Terminate transitions to Terminated iff alive (NotStarted or Running);
// otherwise a no-op.
func (t *Task) Terminate() {
	for {
		s := t.State()
		if s != NotStarted && s != Running {
			return
		}
		if t.CompareAndSwapState(s, Terminated) {
			return
		}
	}
}

// MarkRemoved sets Removed unconditionally.
func (t *Task) MarkRemoved() {
	for {
		old := t.State()
		if t.CompareAndSwapState(old, Removed) {
			return
		}
	}
}

// AttachChild attaches c as the task's only child, detaching any prior child
// (its parent link is cleared).
func (t *Task) AttachChild(c *Task) {
	t.Base.AttachChild(t, c,
		func(prior *Task) { prior.ClearParentLink() },
		func(child *Task, parent *Task) { child.SetParentLink(parent) },
	)
}

// TakeChild transfers ownership of the child out, clearing both links.
func (t *Task) TakeChild() *Task {
	return t.Base.TakeChild(func(c *Task) { c.ClearParentLink() })
}

// DetachChild drops the child reference and clears both links.
func (t *Task) DetachChild() {
	t.Base.DetachChild(func(c *Task) { c.ClearParentLink() })
}
