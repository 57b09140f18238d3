package main

import (
	"time"

	"github.com/joeycumines/corework/process"
	"github.com/joeycumines/corework/task"
)

// tickWorkload succeeds a process once it has accumulated ticks of budget.
type tickWorkload struct {
	ticksLeft int
}

func (w *tickWorkload) Run(p *process.Process, budget int32) {
	w.ticksLeft -= int(budget)
	if w.ticksLeft <= 0 {
		p.Succeed()
	}
}

// sleepWorkload succeeds a task after a fixed delay, simulating blocking
// work performed on the task runner's worker goroutine.
type sleepWorkload struct {
	delay time.Duration
}

func (w *sleepWorkload) Run(t *task.Task) {
	time.Sleep(w.delay)
	t.Succeed()
}
