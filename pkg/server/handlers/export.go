package handlers

import (
	"net/http"

	"freightworks/meridian/pkg/fleet/export"
	"freightworks/meridian/pkg/shipment"
)

// ExportHandler serves read-only exports of the shipment collection.
type ExportHandler struct {
	engine LifecycleEngine
}

// NewExportHandler creates a new export handler.
func NewExportHandler(engine LifecycleEngine) *ExportHandler {
	return &ExportHandler{engine: engine}
}

// Export handles GET /shipments/export. The format query parameter
// selects csv (default) or json; list filters apply as on GET
// /shipments.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	shipments, err := h.engine.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="shipments.csv"`)
		exporter := &export.CSVExporter{IncludeHeader: true}
		if err := exporter.Export(r.Context(), shipments, w); err != nil {
			writeError(w, err)
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		exporter := &export.JSONExporter{}
		if err := exporter.Export(r.Context(), shipments, w); err != nil {
			writeError(w, err)
		}
	default:
		writeError(w, shipment.NewValidationError("format", "must be csv or json"))
	}
}
