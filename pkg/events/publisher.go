package events

import (
	"context"
	"time"
)

// Note types emitted on the event stream.
const (
	NotePhaseChanged      = "shipment.phase_changed"
	NoteComplianceChecked = "shipment.compliance_checked"
	NoteRiskChanged       = "shipment.risk_changed"
)

// Note is the payload published for a shipment lifecycle change.
// Keys follow the wire format of the shipment records themselves.
type Note struct {
	Type       string    `json:"type"`
	ShipmentID string    `json:"shipment_id"`
	Phase      string    `json:"phase,omitempty"`
	FromPhase  string    `json:"from_phase,omitempty"`
	Status     string    `json:"status,omitempty"`
	Issues     []string  `json:"issues,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers lifecycle notes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, note *Note) error
	Close() error
}

// NopPublisher discards all notes. Used when no event stream is
// configured.
type NopPublisher struct{}

// NewNopPublisher returns a publisher that drops everything.
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish discards the note.
func (p *NopPublisher) Publish(ctx context.Context, note *Note) error {
	return nil
}

// Close is a no-op.
func (p *NopPublisher) Close() error {
	return nil
}
