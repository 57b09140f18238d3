package processrunner

import "sync/atomic"

// RunnerState is the runner-level state machine:
// NotStarted -> Running -> WillTerminate -> Terminated, with a direct
// NotStarted -> Terminated path if TerminateRunner is issued before Run.
// Grounded on the teacher's eventloop.FastState: a lock-free CAS state
// machine distinct from (and guarding entry/exit of) the worker loop that
// owns the slot pool.
type RunnerState int32

const (
	NotStarted RunnerState = iota
	Running
	WillTerminate
	Terminated
)

func (s RunnerState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case WillTerminate:
		return "WillTerminate"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type fastState struct {
	v atomic.Int32
}

func (f *fastState) load() RunnerState { return RunnerState(f.v.Load()) }

func (f *fastState) cas(old, new RunnerState) bool {
	return f.v.CompareAndSwap(int32(old), int32(new))
}

func (f *fastState) store(s RunnerState) { f.v.Store(int32(s)) }
