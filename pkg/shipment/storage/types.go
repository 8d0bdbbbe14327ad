package storage

import (
	"context"

	"freightworks/meridian/pkg/shipment"
)

// Filter narrows List and Count results. Zero-valued fields match
// everything.
type Filter struct {
	// Phase filters by current phase.
	Phase shipment.Phase `json:"phase,omitempty"`

	// ComplianceStatus filters by the latest check outcome.
	ComplianceStatus shipment.ComplianceStatus `json:"compliance_status,omitempty"`

	// MonitoringStatus filters by risk label.
	MonitoringStatus shipment.MonitoringStatus `json:"monitoring_status,omitempty"`

	// Source filters by record provenance.
	Source shipment.Source `json:"source,omitempty"`

	// Pagination. A zero Limit returns everything.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Matches reports whether the shipment satisfies every set filter field.
func (f *Filter) Matches(s *shipment.Shipment) bool {
	if f == nil {
		return true
	}
	if f.Phase != "" && s.CurrentPhase != f.Phase {
		return false
	}
	if f.ComplianceStatus != "" && s.ComplianceStatus != f.ComplianceStatus {
		return false
	}
	if f.MonitoringStatus != "" && s.MonitoringStatus != f.MonitoringStatus {
		return false
	}
	if f.Source != "" && s.Source != f.Source {
		return false
	}
	return true
}

// Store is the persistence interface for shipment records.
// Implementations must be safe for concurrent use, and List must return a
// point-in-time snapshot (cloned records) so that readers never observe a
// record mid-transition.
type Store interface {
	// Put upserts a shipment record and bumps its version counter.
	Put(ctx context.Context, s *shipment.Shipment) error

	// Get retrieves a shipment by id. Returns a NotFoundError when absent.
	Get(ctx context.Context, id string) (*shipment.Shipment, error)

	// List returns a snapshot of the shipments matching the filter,
	// ordered by creation time then id.
	List(ctx context.Context, filter *Filter) ([]*shipment.Shipment, error)

	// Count returns the number of shipments matching the filter.
	Count(ctx context.Context, filter *Filter) (int64, error)

	// Delete removes a shipment by id. Returns a NotFoundError when
	// absent. The lifecycle core never deletes; archival is an external
	// concern.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the backend.
	Close() error
}
