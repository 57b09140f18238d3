// Command corework is a CLI front end over an in-process fleet of
// ProcessRunners and TaskRunners, useful for manual exercising of the
// scheduling core.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "corework: %v\n", err)
		os.Exit(1)
	}
}
