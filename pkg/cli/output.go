package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"freightworks/meridian/pkg/shipment"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatTable is aligned tabular output (default).
	FormatTable OutputFormat = "table"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// WriteJSON writes data as indented JSON.
func WriteJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteShipmentTable renders shipments as an aligned table for terminal
// consumption.
func WriteShipmentTable(w io.Writer, shipments []*shipment.Shipment) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tCONTAINER\tPHASE\tCOMPLIANCE\tRISK\tETA\tUPDATED")
	for _, s := range shipments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			orDash(s.ContainerNo),
			s.CurrentPhase,
			s.ComplianceStatus,
			s.MonitoringStatus,
			formatETA(s),
			s.UpdatedAt.Format(time.RFC3339),
		)
	}

	return tw.Flush()
}

func formatETA(s *shipment.Shipment) string {
	if s.ETACurrent != nil {
		return s.ETACurrent.Format("2006-01-02 15:04")
	}
	if s.ETA != nil {
		return s.ETA.Format("2006-01-02 15:04")
	}
	return "-"
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
