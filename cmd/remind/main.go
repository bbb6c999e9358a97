// Command remind is a quick reminder engine: a background scheduler that
// pops up notes when they are due, an interactive shell, and an MCP server
// for assistants.
//
// Usage:
//
//	remind run              # Run the scheduler until interrupted
//	remind shell            # Interactive quick note shell
//	remind mcp              # MCP server on stdio
//	remind list             # Print persisted active reminders
//
// Environment:
//
//	QUICK_REMIND_CONFIG     Path to the YAML config (default: ~/.quick-remind/config.yaml)
//	QUICK_REMIND_*          Config overrides, e.g. QUICK_REMIND_STORAGE__BACKEND=sqlite
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "remind: %s\n", err.Error())
		os.Exit(1)
	}
}
