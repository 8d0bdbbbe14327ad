package fleet

import (
	"context"
	"log/slog"

	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
)

// Lister is the read surface the refresher scans.
type Lister interface {
	List(ctx context.Context, filter *storage.Filter) ([]*shipment.Shipment, error)
}

// Refresher recomputes the fleet snapshot on a schedule and hands it to
// a sink, typically the Prometheus gauge set. The HTTP snapshot
// endpoint computes on demand; this keeps the scraped gauges warm
// between requests.
type Refresher struct {
	lister     Lister
	aggregator *Aggregator
	sink       func(*Snapshot)
	logger     *slog.Logger
}

// NewRefresher creates a refresher. The sink receives every computed
// snapshot and must not retain it past the call.
func NewRefresher(lister Lister, aggregator *Aggregator, sink func(*Snapshot)) *Refresher {
	return &Refresher{
		lister:     lister,
		aggregator: aggregator,
		sink:       sink,
		logger:     slog.Default().With("component", "fleet_refresher"),
	}
}

// Refresh scans the collection, computes a snapshot, and pushes it to
// the sink.
func (r *Refresher) Refresh(ctx context.Context) error {
	shipments, err := r.lister.List(ctx, nil)
	if err != nil {
		return err
	}

	snapshot := r.aggregator.Compute(shipments)
	if r.sink != nil {
		r.sink(snapshot)
	}

	r.logger.Debug("fleet snapshot refreshed",
		"total", snapshot.TotalShipments,
		"completed", snapshot.CompletedShipments,
		"at_risk", snapshot.ShipmentsAtRisk,
	)

	return nil
}
