package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
)

// ShipmentsHandler serves the shipment collection endpoints.
type ShipmentsHandler struct {
	engine LifecycleEngine
	ingest Ingestor
}

// NewShipmentsHandler creates a new shipments handler.
func NewShipmentsHandler(engine LifecycleEngine, ingest Ingestor) *ShipmentsHandler {
	return &ShipmentsHandler{engine: engine, ingest: ingest}
}

// List handles GET /shipments. Query parameters phase, compliance,
// monitoring, source, limit, and offset narrow the result.
func (h *ShipmentsHandler) List(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, shipments)
}

// Get handles GET /shipments/{id}.
func (h *ShipmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// Create handles POST /shipments. The body is a shipment record; an
// absent id gets one assigned. A record whose email message id was
// already ingested is acknowledged without being stored again.
func (h *ShipmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var record shipment.Shipment
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, shipment.NewValidationError("body", "malformed JSON: "+err.Error()))
		return
	}

	created, isNew, err := h.ingest.Ingest(r.Context(), &record)
	if err != nil {
		writeError(w, err)
		return
	}

	if !isNew {
		writeJSON(w, http.StatusOK, map[string]any{"duplicate": true})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateETA handles POST /shipments/{id}/eta. The body carries the new
// current ETA; the transition reclassifies schedule risk.
func (h *ShipmentsHandler) UpdateETA(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ETACurrent *time.Time `json:"eta_current"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, shipment.NewValidationError("body", "malformed JSON: "+err.Error()))
		return
	}
	if body.ETACurrent == nil {
		writeError(w, shipment.NewValidationError("eta_current", "is required"))
		return
	}

	ev := lifecycle.NewEvent(lifecycle.EventETAUpdated, r.PathValue("id"))
	ev.ETACurrent = body.ETACurrent

	res, err := h.engine.Apply(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res.Shipment)
}

// filterFromQuery builds a storage filter from list query parameters.
func filterFromQuery(r *http.Request) (*storage.Filter, error) {
	q := r.URL.Query()
	filter := &storage.Filter{
		Phase:            shipment.Phase(q.Get("phase")),
		ComplianceStatus: shipment.ComplianceStatus(q.Get("compliance")),
		MonitoringStatus: shipment.MonitoringStatus(q.Get("monitoring")),
		Source:           shipment.Source(q.Get("source")),
	}

	if filter.Phase != "" && !filter.Phase.Valid() {
		return nil, shipment.NewValidationError("phase", "unknown phase "+string(filter.Phase))
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, shipment.NewValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return nil, shipment.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}
