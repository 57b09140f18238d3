package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joeycumines/corework/processrunner"
	"github.com/joeycumines/corework/taskrunner"
)

var runnerKind string

var runnerCmd = &cobra.Command{
	Use:   "runner",
	Short: "Create and start named runners",
}

var runnerCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register and start a new runner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		switch runnerKind {
		case "process":
			if !processManager.CreateRunner(name, processrunner.WithSlotCapacity(64)) {
				return fmt.Errorf("process runner %q already exists or manager is full", name)
			}
			processManager.StartAll()
		case "task":
			if !taskManager.CreateRunner(name, taskrunner.WithSlotCapacity(64)) {
				return fmt.Errorf("task runner %q already exists or manager is full", name)
			}
			taskManager.StartAll()
		default:
			return fmt.Errorf("unknown --kind %q, want process or task", runnerKind)
		}
		fmt.Printf("started %s runner %q\n", runnerKind, name)
		return nil
	},
}

func init() {
	runnerCreateCmd.Flags().StringVar(&runnerKind, "kind", "process", "runner kind: process or task")
	runnerCmd.AddCommand(runnerCreateCmd)
}
