package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a snapshot of every registered runner",
	RunE: func(cmd *cobra.Command, args []string) error {
		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)

		for _, name := range processManager.RunnerNames() {
			stats, ok := processManager.RunnerStats(name)
			if !ok {
				continue
			}
			green.Printf("process runner %q: ", name)
			fmt.Printf("state=%v running=%d paused=%d free=%d input=%d\n",
				stats.State, stats.Running, stats.Paused, stats.Free, stats.InputQueueLen)
		}

		for _, name := range taskManager.RunnerNames() {
			stats, ok := taskManager.RunnerStats(name)
			if !ok {
				continue
			}
			yellow.Printf("task runner %q: ", name)
			fmt.Printf("state=%v queued=%d running=%d free=%d input=%d\n",
				stats.State, stats.Queued, stats.Running, stats.Free, stats.InputQueueLen)
		}
		return nil
	},
}
