package handlers

import (
	"net/http"

	"freightworks/meridian/pkg/fleet"
)

// FleetHandler serves the fleet metrics snapshot.
type FleetHandler struct {
	engine     LifecycleEngine
	aggregator *fleet.Aggregator
}

// NewFleetHandler creates a new fleet metrics handler.
func NewFleetHandler(engine LifecycleEngine, aggregator *fleet.Aggregator) *FleetHandler {
	return &FleetHandler{engine: engine, aggregator: aggregator}
}

// Snapshot handles GET /metrics. It reduces the current collection to a
// single dashboard snapshot. Polled by the UI on a fixed interval.
func (h *FleetHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.engine.List(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.aggregator.Compute(shipments))
}
