package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joeycumines/corework/workunit"
)

var controlRunner string

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Pause, resume, or terminate a process, or terminate a runner",
}

func parseID(s string) (workunit.ID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return workunit.ID(n), nil
}

var controlPauseCmd = &cobra.Command{
	Use:   "pause [id]",
	Short: "Pause a running process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if !processManager.PauseProcess(controlRunner, id) {
			return fmt.Errorf("pause refused for process %d on %q", id, controlRunner)
		}
		return nil
	},
}

var controlResumeCmd = &cobra.Command{
	Use:   "resume [id]",
	Short: "Resume a paused process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if !processManager.ResumeProcess(controlRunner, id) {
			return fmt.Errorf("resume refused for process %d on %q", id, controlRunner)
		}
		return nil
	},
}

var controlTerminateProcessCmd = &cobra.Command{
	Use:   "terminate-process [id]",
	Short: "Terminate a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if !processManager.TerminateProcess(controlRunner, id) {
			return fmt.Errorf("terminate refused for process %d on %q", id, controlRunner)
		}
		return nil
	},
}

var controlTerminateRunnerCmd = &cobra.Command{
	Use:   "terminate-runner [name]",
	Short: "Terminate a named process runner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !processManager.TerminateRunner(name) {
			return fmt.Errorf("unknown process runner %q", name)
		}
		fmt.Printf("terminating runner %q\n", name)
		return nil
	},
}

func init() {
	controlPauseCmd.Flags().StringVar(&controlRunner, "runner", "", "runner holding the process")
	controlPauseCmd.MarkFlagRequired("runner")
	controlResumeCmd.Flags().StringVar(&controlRunner, "runner", "", "runner holding the process")
	controlResumeCmd.MarkFlagRequired("runner")
	controlTerminateProcessCmd.Flags().StringVar(&controlRunner, "runner", "", "runner holding the process")
	controlTerminateProcessCmd.MarkFlagRequired("runner")

	controlCmd.AddCommand(controlPauseCmd)
	controlCmd.AddCommand(controlResumeCmd)
	controlCmd.AddCommand(controlTerminateProcessCmd)
	controlCmd.AddCommand(controlTerminateRunnerCmd)
}
