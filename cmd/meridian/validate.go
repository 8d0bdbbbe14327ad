package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"freightworks/meridian/pkg/cli"
	"freightworks/meridian/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the server.

Checks the listen address, storage and dedup backend selections,
monitoring thresholds, event stream settings, and telemetry options.
Environment overrides (MERIDIAN_*) are applied before validation, so the
result reflects the effective configuration.

Examples:
  # Validate the default config file
  meridian validate

  # Validate a specific file
  meridian validate --config /etc/meridian/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	fmt.Printf("Configuration valid: %s\n", cfgFile)
	fmt.Printf("  listen address:  %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  storage backend: %s\n", cfg.Storage.Backend)
	fmt.Printf("  dedup backend:   %s\n", cfg.Ingest.Dedup.Backend)
	fmt.Printf("  events enabled:  %t\n", cfg.Events.Enabled)
	fmt.Printf("  watchlist:       %d entries\n", len(cfg.Compliance.Watchlist))
	return nil
}
