package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"freightworks/meridian/pkg/shipment"
)

func exportShipment(id string) *shipment.Shipment {
	s := shipment.New(id)
	s.ContainerNo = "MSKU1234567"
	s.Shipper = "Acme Export Co"
	s.Consignee = "Umbrella Imports"
	s.HSCode = "8471.30"
	s.Port = "Rotterdam"
	s.CurrentPhase = shipment.PhaseMonitoring
	s.ComplianceStatus = shipment.ComplianceOK
	s.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt
	return s
}

func TestCSVExportWithHeader(t *testing.T) {
	records := []*shipment.Shipment{
		exportShipment("shp-001"),
		exportShipment("shp-002"),
	}
	records[1].ComplianceStatus = shipment.ComplianceIssues
	records[1].ComplianceIssues = []string{"Missing shipper", "Missing ETA"}

	var buf bytes.Buffer
	exporter := NewCSVExporter(true)
	if err := exporter.Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("expected id header, got %q", rows[0][0])
	}
	if len(rows[1]) != len(rows[0]) {
		t.Errorf("row width %d does not match header width %d", len(rows[1]), len(rows[0]))
	}
	if rows[1][0] != "shp-001" {
		t.Errorf("expected shp-001, got %q", rows[1][0])
	}
	if !strings.Contains(strings.Join(rows[2], ","), "Missing shipper; Missing ETA") {
		t.Errorf("compliance issues not flattened: %v", rows[2])
	}
}

func TestCSVExportWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewCSVExporter(false)
	if err := exporter.Export(context.Background(), []*shipment.Shipment{exportShipment("shp-003")}, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row without header, got %d", len(rows))
	}
}

func TestCSVExportStream(t *testing.T) {
	ch := make(chan *shipment.Shipment, 3)
	for _, id := range []string{"shp-a", "shp-b", "shp-c"} {
		ch <- exportShipment(id)
	}
	close(ch)

	var buf bytes.Buffer
	exporter := NewCSVExporter(true)
	if err := exporter.ExportStream(context.Background(), ch, &buf); err != nil {
		t.Fatalf("ExportStream failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("expected header + 3 rows, got %d", len(rows))
	}
}

func TestCSVExportStreamCancellation(t *testing.T) {
	ch := make(chan *shipment.Shipment)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewCSVExporter(false).ExportStream(ctx, ch, &buf)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestJSONExport(t *testing.T) {
	records := []*shipment.Shipment{exportShipment("shp-001"), exportShipment("shp-002")}

	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded []*shipment.Shipment
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0].ID != "shp-001" || decoded[0].CurrentPhase != shipment.PhaseMonitoring {
		t.Errorf("record not round-tripped: %+v", decoded[0])
	}
}

func TestJSONExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(true).Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestJSONExportStream(t *testing.T) {
	ch := make(chan *shipment.Shipment, 2)
	ch <- exportShipment("shp-a")
	ch <- exportShipment("shp-b")
	close(ch)

	var buf bytes.Buffer
	if err := NewJSONExporter(false).ExportStream(context.Background(), ch, &buf); err != nil {
		t.Fatalf("ExportStream failed: %v", err)
	}

	var decoded []*shipment.Shipment
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("streamed output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("expected 2 records, got %d", len(decoded))
	}
}
