package handlers

import (
	"net/http"

	"freightworks/meridian/pkg/compliance"
	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
)

// ComplianceHandler serves on-demand compliance checks.
type ComplianceHandler struct {
	engine LifecycleEngine
}

// NewComplianceHandler creates a new compliance check handler.
func NewComplianceHandler(engine LifecycleEngine) *ComplianceHandler {
	return &ComplianceHandler{engine: engine}
}

// CheckResponse is the outcome of one on-demand compliance check.
type CheckResponse struct {
	Shipment   *shipment.Shipment `json:"shipment"`
	Violations []string           `json:"violations"`
}

// Check handles POST /compliance-check/{id}. It re-runs the full rule
// set against the shipment's current data and returns the updated
// record together with the violations found.
func (h *ComplianceHandler) Check(w http.ResponseWriter, r *http.Request) {
	ev := lifecycle.NewEvent(lifecycle.EventComplianceCheck, r.PathValue("id"))

	res, err := h.engine.Apply(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}

	violations := compliance.Messages(res.Violations)
	if violations == nil {
		violations = []string{}
	}

	writeJSON(w, http.StatusOK, CheckResponse{
		Shipment:   res.Shipment,
		Violations: violations,
	})
}
