package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Meridian - shipment lifecycle and compliance engine",
	Long: `Meridian tracks freight shipments through a five-phase lifecycle and
screens them against a compliance rule set.

It provides:
  - Phase tracking: intake, compliance, monitoring, arrival, billing
  - Rule-based compliance screening with a high-risk port watchlist
  - Schedule risk classification from ETA variance
  - Fleet-level KPI aggregation for the operations dashboard
  - Lifecycle event notifications over Kafka`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
