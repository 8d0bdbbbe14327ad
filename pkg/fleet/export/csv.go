package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"freightworks/meridian/pkg/shipment"
)

// CSVExporter exports shipment records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes shipment records to the provided writer in CSV format.
// Nested structures are flattened: compliance issues become a
// semicolon-separated string, phase progress becomes one column per phase.
func (e *CSVExporter) Export(ctx context.Context, records []*shipment.Shipment, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return shipment.NewExportError("csv", len(records), err)
		}
	}

	for i, record := range records {
		if err := writer.Write(recordToRow(record)); err != nil {
			return shipment.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return shipment.NewExportError("csv", len(records), err)
	}
	return nil
}

// ExportStream exports shipment records from a channel to CSV format.
// Memory-efficient for large result sets: records are written one at a
// time, with periodic flushes for progress feedback.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *shipment.Shipment, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return shipment.NewExportError("csv", 0, err)
		}
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return shipment.NewExportError("csv", recordCount, err)
				}
				return nil
			}

			if err := writer.Write(recordToRow(record)); err != nil {
				return shipment.NewExportError("csv", recordCount, err)
			}
			recordCount++

			if recordCount%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return shipment.NewExportError("csv", recordCount, err)
				}
			}
		}
	}
}

func headerRow() []string {
	return []string{
		"id", "container_no", "current_phase",
		"intake_progress", "compliance_progress", "monitoring_progress",
		"arrival_progress", "billing_progress",
		"compliance_status", "compliance_issues", "monitoring_status",
		"eta_planned", "eta_current", "eta_variance_hours",
		"shipper", "consignee", "hs_code", "commodity",
		"port", "destination", "eta", "arrival_date", "promised_date",
		"cost_saved", "gross_margin",
		"source", "email_message_id", "email_received_at",
		"version", "created_at", "updated_at",
	}
}

func recordToRow(record *shipment.Shipment) []string {
	formatTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	formatFloat := func(f *float64) string {
		if f == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *f)
	}

	emailMessageID := ""
	emailReceivedAt := ""
	if record.EmailMetadata != nil {
		emailMessageID = record.EmailMetadata.MessageID
		if !record.EmailMetadata.ReceivedAt.IsZero() {
			emailReceivedAt = record.EmailMetadata.ReceivedAt.Format(time.RFC3339)
		}
	}

	return []string{
		record.ID,
		record.ContainerNo,
		string(record.CurrentPhase),
		string(record.PhaseProgress[shipment.PhaseIntake]),
		string(record.PhaseProgress[shipment.PhaseCompliance]),
		string(record.PhaseProgress[shipment.PhaseMonitoring]),
		string(record.PhaseProgress[shipment.PhaseArrival]),
		string(record.PhaseProgress[shipment.PhaseBilling]),
		string(record.ComplianceStatus),
		strings.Join(record.ComplianceIssues, "; "),
		string(record.MonitoringStatus),
		formatTime(record.ETAPlanned),
		formatTime(record.ETACurrent),
		fmt.Sprintf("%.2f", record.ETAVarianceHours),
		record.Shipper,
		record.Consignee,
		record.HSCode,
		record.Commodity,
		record.Port,
		record.Destination,
		formatTime(record.ETA),
		formatTime(record.ArrivalDate),
		formatTime(record.PromisedDate),
		formatFloat(record.CostSaved),
		formatFloat(record.GrossMargin),
		string(record.Source),
		emailMessageID,
		emailReceivedAt,
		fmt.Sprintf("%d", record.Version),
		record.CreatedAt.Format(time.RFC3339),
		record.UpdatedAt.Format(time.RFC3339),
	}
}
