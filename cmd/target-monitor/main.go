// Package main is the entry point for the target-monitor.
package main

import (
	"os"

	"github.com/1TapDev/Target-Monitor/cmd/target-monitor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
