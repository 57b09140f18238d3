package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeycumines/corework/process"
	"github.com/joeycumines/corework/task"
)

var (
	queueRunner string
	queueTicks  int
	queueDelay  time.Duration
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Queue a process or task onto a runner",
}

var queueProcessCmd = &cobra.Command{
	Use:   "process [name]",
	Short: "Queue a tick-driven process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		p := process.New(name, &tickWorkload{ticksLeft: queueTicks})
		if !processManager.QueueProcess(queueRunner, p) {
			return fmt.Errorf("runner %q refused process %q", queueRunner, name)
		}
		fmt.Printf("queued process %q (id=%d) on %q\n", name, p.ID(), queueRunner)
		return nil
	},
}

var queueTaskCmd = &cobra.Command{
	Use:   "task [name]",
	Short: "Queue a delay-driven task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		t := task.New(name, &sleepWorkload{delay: queueDelay})
		if taskManager.QueueTaskOn(queueRunner, t) == nil {
			return fmt.Errorf("runner %q refused task %q", queueRunner, name)
		}
		fmt.Printf("queued task %q (id=%d) on %q\n", name, t.ID(), queueRunner)
		return nil
	},
}

func init() {
	queueProcessCmd.Flags().StringVar(&queueRunner, "runner", "", "target runner name")
	queueProcessCmd.Flags().IntVar(&queueTicks, "ticks", 1, "ticks of budget before success")
	queueProcessCmd.MarkFlagRequired("runner")

	queueTaskCmd.Flags().StringVar(&queueRunner, "runner", "", "target runner name")
	queueTaskCmd.Flags().DurationVar(&queueDelay, "delay", 100*time.Millisecond, "simulated work duration")
	queueTaskCmd.MarkFlagRequired("runner")

	queueCmd.AddCommand(queueProcessCmd)
	queueCmd.AddCommand(queueTaskCmd)
}
