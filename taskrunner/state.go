package taskrunner

import "sync/atomic"

// RunnerState mirrors processrunner.RunnerState:
// NotStarted -> Running -> WillTerminate -> Terminated.
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
