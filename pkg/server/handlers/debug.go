package handlers

import (
	"encoding/json"
	"net/http"

	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
)

// DebugHandler serves the externally-triggered phase transitions. These
// stand in for the carrier and billing integrations that would fire
// them in production.
type DebugHandler struct {
	engine LifecycleEngine
}

// NewDebugHandler creates a new debug transition handler.
func NewDebugHandler(engine LifecycleEngine) *DebugHandler {
	return &DebugHandler{engine: engine}
}

// debugRequest is the body of every debug transition: just the target
// shipment id.
type debugRequest struct {
	ID string `json:"id"`
}

// ArrivalRelease handles POST /debug/phase/arrival-release. It confirms
// arrival for a shipment in monitoring.
func (h *DebugHandler) ArrivalRelease(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lifecycle.EventArrivalConfirmed)
}

// BillingTrigger handles POST /debug/phase/billing-trigger. It releases
// an arrived shipment into billing.
func (h *DebugHandler) BillingTrigger(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lifecycle.EventBillingTriggered)
}

// BillingProcessed handles POST /debug/phase/billing-processed. It
// completes billing and terminates the lifecycle.
func (h *DebugHandler) BillingProcessed(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lifecycle.EventBillingProcessed)
}

func (h *DebugHandler) apply(w http.ResponseWriter, r *http.Request, kind lifecycle.EventKind) {
	var body debugRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, shipment.NewValidationError("body", "malformed JSON: "+err.Error()))
		return
	}
	if body.ID == "" {
		writeError(w, shipment.NewValidationError("id", "is required"))
		return
	}

	res, err := h.engine.Apply(r.Context(), lifecycle.NewEvent(kind, body.ID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res.Shipment)
}
