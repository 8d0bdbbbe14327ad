package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"freightworks/meridian/pkg/cli"
	"freightworks/meridian/pkg/shipment"
)

var shipmentsFlags struct {
	address string
	phase   string
	format  string
}

var shipmentsCmd = &cobra.Command{
	Use:   "shipments",
	Short: "List shipments from a running server",
	Long: `Query a running Meridian server for its shipment collection.

Examples:
  # List all shipments
  meridian shipments

  # List shipments stuck in compliance
  meridian shipments --phase compliance

  # JSON output for scripting
  meridian shipments --format json`,
	RunE: listShipments,
}

func init() {
	rootCmd.AddCommand(shipmentsCmd)

	shipmentsCmd.Flags().StringVar(&shipmentsFlags.address, "address", "http://127.0.0.1:8420", "server base URL")
	shipmentsCmd.Flags().StringVar(&shipmentsFlags.phase, "phase", "", "filter by current phase")
	shipmentsCmd.Flags().StringVar(&shipmentsFlags.format, "format", "table", "output format: table, json")
}

func listShipments(cmd *cobra.Command, args []string) error {
	endpoint, err := url.Parse(shipmentsFlags.address + "/shipments")
	if err != nil {
		return cli.NewCommandError("shipments", err)
	}
	if shipmentsFlags.phase != "" {
		q := endpoint.Query()
		q.Set("phase", shipmentsFlags.phase)
		endpoint.RawQuery = q.Encode()
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(endpoint.String())
	if err != nil {
		return cli.NewCommandError("shipments", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cli.NewCommandError("shipments", fmt.Errorf("server returned %s", resp.Status))
	}

	var shipments []*shipment.Shipment
	if err := json.NewDecoder(resp.Body).Decode(&shipments); err != nil {
		return cli.NewCommandError("shipments", err)
	}

	switch cli.OutputFormat(shipmentsFlags.format) {
	case cli.FormatJSON:
		return cli.WriteJSON(os.Stdout, shipments)
	default:
		if err := cli.WriteShipmentTable(os.Stdout, shipments); err != nil {
			return err
		}
		fmt.Printf("\n%d shipment(s)\n", len(shipments))
		return nil
	}
}
