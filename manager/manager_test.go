package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/corework/process"
	"github.com/joeycumines/corework/processrunner"
	"github.com/joeycumines/corework/task"
	"github.com/joeycumines/corework/taskrunner"
)

type nopProcessWorkload struct{}

func (nopProcessWorkload) Run(p *process.Process, budget int32) { p.Succeed() }

// idleProcessWorkload stays Running until terminated, so the process stays
// in its runner's index.
type idleProcessWorkload struct{}

func (idleProcessWorkload) Run(p *process.Process, budget int32) {}

func TestProcessManager_CreateRunnerCapacityAndDuplicate(t *testing.T) {
	m := NewProcessManager(1)
	require.True(t, m.CreateRunner("a", processrunner.WithSlotCapacity(4)))
	require.False(t, m.CreateRunner("a", processrunner.WithSlotCapacity(4))) // duplicate
	require.False(t, m.CreateRunner("b", processrunner.WithSlotCapacity(4))) // capacity exhausted
}

func TestProcessManager_TargetedControl(t *testing.T) {
	m := NewProcessManager(2)
	require.True(t, m.CreateRunner("pm1", processrunner.WithSlotCapacity(4), processrunner.WithInputQueueSize(4)))
	require.True(t, m.CreateRunner("pm2", processrunner.WithSlotCapacity(32), processrunner.WithInputQueueSize(32)))
	m.StartAll()

	p1 := process.New("p1", nopProcessWorkload{})
	p2 := process.New("p2", nopProcessWorkload{})
	require.True(t, m.QueueProcess("pm1", p1))
	require.True(t, m.QueueProcess("pm2", p2))

	require.True(t, m.TerminateRunner("pm1"))
	require.False(t, m.TerminateRunner("unknown"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s, _ := m.RunnerStats("pm1")
		if s.State == processrunner.Terminated {
			break
		}
		time.Sleep(time.Millisecond)
	}
	s1, _ := m.RunnerStats("pm1")
	require.Equal(t, processrunner.Terminated, s1.State)

	s2, _ := m.RunnerStats("pm2")
	require.NotEqual(t, processrunner.Terminated, s2.State)

	m.TerminateAllRunners()
	require.True(t, m.WaitForAllTerminated())
}

func TestProcessManager_GetProcessByIDScansAllRunners(t *testing.T) {
	m := NewProcessManager(2)
	require.True(t, m.CreateRunner("a", processrunner.WithSlotCapacity(4), processrunner.WithInputQueueSize(4)))
	require.True(t, m.CreateRunner("b", processrunner.WithSlotCapacity(4), processrunner.WithInputQueueSize(4)))
	m.StartAll()

	p := process.New("findme", idleProcessWorkload{})
	require.True(t, m.QueueProcess("b", p))

	deadline := time.Now().Add(time.Second)
	var found bool
	for time.Now().Before(deadline) {
		if _, ok := m.GetProcessByID(p.ID()); ok {
			found = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, found)

	m.TerminateAllRunners()
	m.WaitForAllTerminated()
}

type nopTaskWorkload struct{}

func (nopTaskWorkload) Run(t *task.Task) { t.Succeed() }

func TestTaskManager_QueueTaskFanOutSkipsFullRunners(t *testing.T) {
	m := NewTaskManager(2)
	require.True(t, m.CreateRunner("t1", taskrunner.WithInputQueueSize(1)))
	require.True(t, m.CreateRunner("t2"))
	// Do not start the runners, so queueing is deterministic.

	t1Stats, _ := m.RunnerStats("t1")
	require.Equal(t, 64, t1Stats.Free+t1Stats.Queued+t1Stats.Running)

	queued := m.QueueTask(task.New("x", nopTaskWorkload{}))
	require.NotNil(t, queued)
	// t1's one-entry input queue is now full, so the next task goes to t2.
	queued = m.QueueTask(task.New("y", nopTaskWorkload{}))
	require.NotNil(t, queued)
	t1Stats, _ = m.RunnerStats("t1")
	require.Equal(t, 1, t1Stats.InputQueueLen)
	t2Stats, _ := m.RunnerStats("t2")
	require.Equal(t, 1, t2Stats.InputQueueLen)

	m.TerminateAllRunners()
	m.WaitForAllTerminated()
}
