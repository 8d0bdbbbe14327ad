package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freightworks/meridian/pkg/fleet"
	"freightworks/meridian/pkg/ingest"
	"freightworks/meridian/pkg/ingest/dedup"
	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
)

func newTestMux(t *testing.T) (*http.ServeMux, *lifecycle.Engine) {
	t.Helper()

	engine := lifecycle.NewEngine(storage.NewMemoryStore(), lifecycle.NewMachine(nil, nil), nil, nil)
	intake := ingest.NewIntake(engine, dedup.NewMemoryBackend())

	shipments := NewShipmentsHandler(engine, intake)
	checks := NewComplianceHandler(engine)
	fleetHandler := NewFleetHandler(engine, fleet.NewAggregator(0))
	debug := NewDebugHandler(engine)
	exports := NewExportHandler(engine)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /shipments", shipments.List)
	mux.HandleFunc("GET /shipments/export", exports.Export)
	mux.HandleFunc("GET /shipments/{id}", shipments.Get)
	mux.HandleFunc("POST /shipments", shipments.Create)
	mux.HandleFunc("POST /shipments/{id}/eta", shipments.UpdateETA)
	mux.HandleFunc("POST /compliance-check/{id}", checks.Check)
	mux.HandleFunc("GET /metrics", fleetHandler.Snapshot)
	mux.HandleFunc("POST /debug/phase/arrival-release", debug.ArrivalRelease)
	mux.HandleFunc("POST /debug/phase/billing-trigger", debug.BillingTrigger)
	mux.HandleFunc("POST /debug/phase/billing-processed", debug.BillingProcessed)

	return mux, engine
}

func seedShipment(t *testing.T, mux *http.ServeMux, id string) {
	t.Helper()

	eta := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	body := `{
		"id": "` + id + `",
		"container_no": "MSKU1234567",
		"shipper": "Acme Export Co",
		"consignee": "Umbrella Imports",
		"hs_code": "8471.30",
		"port": "Rotterdam",
		"eta": "` + eta + `",
		"source": "manual"
	}`

	rec := do(mux, "POST", "/shipments", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed %s: expected 201, got %d: %s", id, rec.Code, rec.Body.String())
	}
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetShipment(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-001")

	rec := do(mux, "GET", "/shipments/shp-001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got shipment.Shipment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CurrentPhase != shipment.PhaseMonitoring {
		t.Errorf("expected monitoring after clean intake, got %q", got.CurrentPhase)
	}
	if got.ComplianceStatus != shipment.ComplianceOK {
		t.Errorf("expected compliance ok, got %q", got.ComplianceStatus)
	}
}

func TestCreateMalformedBody(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(mux, "POST", "/shipments", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != "validation_error" {
		t.Errorf("expected validation_error, got %q", envelope.Error.Code)
	}
}

func TestGetUnknownShipment(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(mux, "GET", "/shipments/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListShipmentsWithFilter(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-010")
	seedShipment(t, mux, "shp-011")

	rec := do(mux, "GET", "/shipments", "")
	var all []*shipment.Shipment
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 shipments, got %d", len(all))
	}

	rec = do(mux, "GET", "/shipments?phase=billing", "")
	var none []*shipment.Shipment
	if err := json.NewDecoder(rec.Body).Decode(&none); err != nil {
		t.Fatalf("decode filtered list: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no billing shipments, got %d", len(none))
	}

	rec = do(mux, "GET", "/shipments?phase=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown phase, got %d", rec.Code)
	}
}

func TestComplianceCheckEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-020")

	rec := do(mux, "POST", "/compliance-check/shp-020", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result CheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Shipment.ComplianceStatus != shipment.ComplianceOK {
		t.Errorf("expected ok, got %q", result.Shipment.ComplianceStatus)
	}
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %v", result.Violations)
	}

	rec = do(mux, "POST", "/compliance-check/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestDebugPhaseTransitions(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-030")

	rec := do(mux, "POST", "/debug/phase/arrival-release", `{"id": "shp-030"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("arrival-release: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(mux, "POST", "/debug/phase/billing-trigger", `{"id": "shp-030"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("billing-trigger: expected 200, got %d", rec.Code)
	}

	rec = do(mux, "POST", "/debug/phase/billing-processed", `{"id": "shp-030"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("billing-processed: expected 200, got %d", rec.Code)
	}

	var done shipment.Shipment
	if err := json.NewDecoder(rec.Body).Decode(&done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !done.Completed() {
		t.Errorf("expected completed shipment, got phase %q", done.CurrentPhase)
	}
}

func TestDebugGuardRejection(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-040")

	// Still in monitoring; billing cannot be processed yet.
	rec := do(mux, "POST", "/debug/phase/billing-processed", `{"id": "shp-040"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var envelope ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != "invalid_transition" {
		t.Errorf("expected invalid_transition, got %q", envelope.Error.Code)
	}
}

func TestDebugMissingID(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(mux, "POST", "/debug/phase/arrival-release", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateETA(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-050")

	rec := do(mux, "POST", "/shipments/shp-050/eta", `{"eta_current": "2030-01-01T00:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got shipment.Shipment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ETACurrent == nil {
		t.Fatalf("expected eta_current to be set")
	}

	rec = do(mux, "POST", "/shipments/shp-050/eta", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing eta_current, got %d", rec.Code)
	}
}

func TestFleetSnapshotEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-060")

	rec := do(mux, "GET", "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snapshot fleet.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.TotalShipments != 1 {
		t.Errorf("expected 1 shipment, got %d", snapshot.TotalShipments)
	}
}

func TestExportCSV(t *testing.T) {
	mux, _ := newTestMux(t)
	seedShipment(t, mux, "shp-070")

	rec := do(mux, "GET", "/shipments/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "shp-070") {
		t.Errorf("exported CSV missing shipment id")
	}

	rec = do(mux, "GET", "/shipments/export?format=xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rec.Code)
	}
}
