package lifecycle

import (
	"time"
)

// EventKind identifies a lifecycle event.
type EventKind string

const (
	// EventCreated is applied once when a shipment enters the system; it
	// completes intake and hands the shipment to compliance.
	EventCreated EventKind = "created"

	// EventComplianceCheck re-runs the full rule set. Permitted at any
	// time, e.g. after a data correction.
	EventComplianceCheck EventKind = "compliance_check"

	// EventETAUpdated carries a new current ETA and triggers risk
	// reclassification.
	EventETAUpdated EventKind = "eta_updated"

	// EventArrivalConfirmed is the explicit external arrival confirmation
	// that moves a shipment out of monitoring.
	EventArrivalConfirmed EventKind = "arrival_confirmed"

	// EventBillingTriggered is the release event that moves a shipment
	// from arrival into billing.
	EventBillingTriggered EventKind = "billing_triggered"

	// EventBillingProcessed completes billing and terminates the
	// lifecycle.
	EventBillingProcessed EventKind = "billing_processed"
)

// Event is an inbound lifecycle event addressed to a single shipment.
type Event struct {
	Kind       EventKind  `json:"kind"`
	ShipmentID string     `json:"shipment_id"`
	ETACurrent *time.Time `json:"eta_current,omitempty"` // only for eta_updated
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(kind EventKind, shipmentID string) Event {
	return Event{Kind: kind, ShipmentID: shipmentID, OccurredAt: time.Now().UTC()}
}
