package main

import (
	"os"

	"github.com/AIckathon-2025-08/blackout-tracker-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
