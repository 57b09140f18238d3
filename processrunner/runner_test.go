package processrunner

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/corework/process"
)

type tickWorkload struct {
	remaining int
	tickDelay time.Duration // per-tick sleep, so long-lived processes outlive the tests' polling
	onSuccess func()
	onTerm    func()
}

func (w *tickWorkload) Run(p *process.Process, budget int32) {
	time.Sleep(w.tickDelay)
	w.remaining--
	if w.remaining <= 0 {
		p.Succeed()
	}
}

func (w *tickWorkload) OnSuccess(p *process.Process) {
	if w.onSuccess != nil {
		w.onSuccess()
	}
}
func (w *tickWorkload) OnTermination(p *process.Process) {
	if w.onTerm != nil {
		w.onTerm()
	}
}
func (w *tickWorkload) OnInitialize(p *process.Process) {}
func (w *tickWorkload) OnPause(p *process.Process)      {}
func (w *tickWorkload) OnResume(p *process.Process)     {}
func (w *tickWorkload) OnFailure(p *process.Process)    {}

func waitForStats(t *testing.T, r *Runner, timeout time.Duration, pred func(Stats) bool) Stats {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		s := r.Stats()
		if pred(s) {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for predicate, last stats: %+v", r.Stats())
	return Stats{}
}

func TestRunner_FourUpRoundRobin(t *testing.T) {
	var mu sync.Mutex
	var order []string

	mk := func(name string, ticks int) *process.Process {
		w := &tickWorkload{remaining: ticks}
		w.onSuccess = func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
		return process.New(name, w)
	}

	r := New(WithSlotCapacity(4), WithInputQueueSize(4))
	_, err := r.Run()
	require.NoError(t, err)
	r.WaitUntilStarted()

	require.True(t, r.QueueProcess(mk("P1", 1)))
	require.True(t, r.QueueProcess(mk("P2", 3)))
	require.True(t, r.QueueProcess(mk("P3", 1)))
	require.True(t, r.QueueProcess(mk("P4", 5)))

	waitForStats(t, r, 2*time.Second, func(s Stats) bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 4
	})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"P1", "P3", "P2", "P4"}, order)

	r.TerminateRunner()
	require.True(t, r.WaitForTermination())
}

func TestRunner_PauseThenTerminate(t *testing.T) {
	var mu sync.Mutex
	termed := map[string]bool{}
	succeeded := map[string]bool{}

	mk := func(name string, ticks int) *process.Process {
		w := &tickWorkload{remaining: ticks, tickDelay: time.Millisecond}
		w.onTerm = func() { mu.Lock(); termed[name] = true; mu.Unlock() }
		w.onSuccess = func() { mu.Lock(); succeeded[name] = true; mu.Unlock() }
		return process.New(name, w)
	}

	r := New(WithSlotCapacity(4), WithInputQueueSize(4))
	_, err := r.Run()
	require.NoError(t, err)
	r.WaitUntilStarted()

	p1 := mk("P1", 100)
	p2 := mk("P2", 100)
	p3 := mk("P3", 100)
	p4 := mk("P4", 100)
	require.True(t, r.QueueProcess(p1))
	require.True(t, r.QueueProcess(p2))
	require.True(t, r.QueueProcess(p3))
	require.True(t, r.QueueProcess(p4))

	waitForStats(t, r, time.Second, func(s Stats) bool { return s.Running == 4 })

	require.True(t, r.PauseProcess(p1.ID()))
	require.True(t, r.PauseProcess(p3.ID()))
	waitForStats(t, r, time.Second, func(s Stats) bool { return s.Paused == 2 })

	require.True(t, r.TerminateProcess(p2.ID()))
	require.True(t, r.TerminateProcess(p4.ID()))

	waitForStats(t, r, time.Second, func(s Stats) bool {
		mu.Lock()
		defer mu.Unlock()
		return termed["P2"] && termed["P4"]
	})
	require.Equal(t, process.Paused, p1.State())
	require.Equal(t, process.Paused, p3.State())

	require.True(t, r.ResumeProcess(p1.ID()))
	waitForStats(t, r, 2*time.Second, func(s Stats) bool {
		mu.Lock()
		defer mu.Unlock()
		return succeeded["P1"]
	})

	r.TerminateRunner()
	require.True(t, r.WaitForTermination())
}

func TestRunner_ParentSuccession(t *testing.T) {
	r := New(WithSlotCapacity(4), WithInputQueueSize(4))
	_, err := r.Run()
	require.NoError(t, err)
	r.WaitUntilStarted()

	var childRan bool
	child := process.New("c1", &tickWorkload{remaining: 1, onSuccess: func() { childRan = true }})
	parent := process.New("p1", &tickWorkload{remaining: 1})
	parent.AttachChild(child)

	require.True(t, r.QueueProcess(parent))

	waitForStats(t, r, 2*time.Second, func(s Stats) bool { return childRan })
	require.True(t, childRan)

	r.TerminateRunner()
	require.True(t, r.WaitForTermination())
}

func TestRunner_ChildCancelledOnParentTermination(t *testing.T) {
	r := New(WithSlotCapacity(4), WithInputQueueSize(4))
	_, err := r.Run()
	require.NoError(t, err)
	r.WaitUntilStarted()

	var childTermed bool
	var mu sync.Mutex
	child := process.New("c1", &tickWorkload{remaining: 100, tickDelay: time.Millisecond, onTerm: func() { mu.Lock(); childTermed = true; mu.Unlock() }})
	parent := process.New("p1", &tickWorkload{remaining: 100, tickDelay: time.Millisecond})
	parent.AttachChild(child)

	require.True(t, r.QueueProcess(parent))
	waitForStats(t, r, time.Second, func(s Stats) bool { return s.Running == 1 })

	require.True(t, r.TerminateProcess(parent.ID()))
	waitForStats(t, r, time.Second, func(s Stats) bool {
		mu.Lock()
		defer mu.Unlock()
		return childTermed
	})
	require.Equal(t, process.Terminated, child.State())
	require.False(t, child.HasChild())

	r.TerminateRunner()
	require.True(t, r.WaitForTermination())
}

func TestRunner_InputQueueOverflowRefuses(t *testing.T) {
	r := New(WithSlotCapacity(4), WithInputQueueSize(4))
	// Do not start the runner so the queue fills deterministically before
	// any admission drains it.
	for i := 0; i < 4; i++ {
		p := process.New("p", &tickWorkload{remaining: 100})
		require.True(t, r.QueueProcess(p))
	}
	fifth := process.New("p5", &tickWorkload{remaining: 100})
	require.False(t, r.QueueProcess(fifth))

	r.TerminateRunner()
}

func TestRunner_TerminateRunnerBeforeRunIsImmediate(t *testing.T) {
	r := New()
	require.True(t, r.TerminateRunner())
	require.True(t, r.WaitForTermination())
	require.Equal(t, Terminated, r.Stats().State)
}
