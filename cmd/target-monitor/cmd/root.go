// Package cmd implements the CLI commands for target-monitor.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "target-monitor",
	Short: "Monitor Target store stock and alert on changes",
	Long: "A service that polls store-level stock availability for configured\n" +
		"SKU and ZIP code pairs, tracks per-store quantity history in Postgres,\n" +
		"and sends Discord alerts on restocks, sellouts, and quantity changes.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
