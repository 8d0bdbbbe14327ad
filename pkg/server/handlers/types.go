package handlers

import (
	"context"

	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
)

// LifecycleEngine is the transition surface handlers drive.
type LifecycleEngine interface {
	Apply(ctx context.Context, ev lifecycle.Event) (*lifecycle.Result, error)
	Get(ctx context.Context, id string) (*shipment.Shipment, error)
	List(ctx context.Context, filter *storage.Filter) ([]*shipment.Shipment, error)
}

// Ingestor is the create-or-deduplicate entry point for new records.
type Ingestor interface {
	Ingest(ctx context.Context, record *shipment.Shipment) (*shipment.Shipment, bool, error)
}
