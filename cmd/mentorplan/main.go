package main

import (
	"fmt"
	"os"

	"mentorplan/internal/cli"
	"mentorplan/internal/tui"
)

func main() {
	// If no args, launch the timeline TUI; otherwise route to the CLI
	if len(os.Args) == 1 {
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}
