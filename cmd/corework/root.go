package main

import (
	"github.com/spf13/cobra"

	"github.com/joeycumines/corework/manager"
)

var (
	processManager = manager.NewProcessManager(32)
	taskManager    = manager.NewTaskManager(32)
)

var rootCmd = &cobra.Command{
	Use:           "corework",
	Short:         "Exercise process and task runners from the command line",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(runnerCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(controlCmd)
	rootCmd.AddCommand(statusCmd)
}
