package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type countingWorkload struct {
	ticks       int
	succeedAt   int
	initCalls   int
	successCalls int
	failCalls   int
	termCalls   int
}

func (w *countingWorkload) Run(p *Process, budget int32) {
	w.ticks++
	if w.ticks >= w.succeedAt {
		p.Succeed()
	}
}

func (w *countingWorkload) OnInitialize(p *Process)  { w.initCalls++ }
func (w *countingWorkload) OnPause(p *Process)       {}
func (w *countingWorkload) OnResume(p *Process)      {}
func (w *countingWorkload) OnSuccess(p *Process)     { w.successCalls++ }
func (w *countingWorkload) OnFailure(p *Process)     { w.failCalls++ }
func (w *countingWorkload) OnTermination(p *Process) { w.termCalls++ }

func TestProcess_RunToSuccess(t *testing.T) {
	w := &countingWorkload{succeedAt: 3}
	p := New("p1", w)
	require.Equal(t, NotStarted, p.State())

	p.CompareAndSwapState(NotStarted, Running)
	p.CallOnInitialize()
	for p.State() == Running {
		p.Run(1)
	}
	require.Equal(t, Succeeded, p.State())
	require.Equal(t, 3, w.ticks)
	require.Equal(t, 1, w.initCalls)
}

func TestProcess_PauseResume(t *testing.T) {
	w := &countingWorkload{succeedAt: 100}
	p := New("p1", w)
	p.CompareAndSwapState(NotStarted, Running)
	require.True(t, p.Pause())
	require.Equal(t, Paused, p.State())
	require.False(t, p.Pause())
	require.True(t, p.Resume())
	require.Equal(t, Running, p.State())
}

func TestProcess_TerminateFromAnyAliveState(t *testing.T) {
	for _, start := range []State{NotStarted, Running, Paused} {
		w := &countingWorkload{succeedAt: 100}
		p := New("p", w)
		p.CompareAndSwapState(NotStarted, start)
		p.Terminate()
		require.Equal(t, Terminated, p.State())
	}
}

func TestProcess_TerminateNoOpWhenDead(t *testing.T) {
	w := &countingWorkload{succeedAt: 1}
	p := New("p", w)
	p.CompareAndSwapState(NotStarted, Running)
	p.Run(1)
	require.Equal(t, Succeeded, p.State())
	p.Terminate()
	require.Equal(t, Succeeded, p.State())
}

func TestProcess_AttachTakeChild(t *testing.T) {
	parent := New("parent", &countingWorkload{succeedAt: 1})
	child := New("child", &countingWorkload{succeedAt: 1})
	parent.AttachChild(child)
	require.True(t, parent.HasChild())
	require.Equal(t, parent, child.Parent())

	taken := parent.TakeChild()
	require.Same(t, child, taken)
	require.False(t, parent.HasChild())
	require.Nil(t, child.Parent())
}

func TestProcess_EffectiveBudgetIsWeightNotDuration(t *testing.T) {
	p := New("p", &countingWorkload{succeedAt: 1})
	p.SetPriority(2)
	p.SetModifier(3)
	require.Equal(t, int32(60), p.EffectiveBudget(10))
}
