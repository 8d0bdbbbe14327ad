package fleet

import (
	"context"
	"errors"
	"testing"

	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
)

type staticLister struct {
	shipments []*shipment.Shipment
	err       error
}

func (l *staticLister) List(ctx context.Context, filter *storage.Filter) ([]*shipment.Shipment, error) {
	return l.shipments, l.err
}

func TestRefresherPushesSnapshot(t *testing.T) {
	lister := &staticLister{shipments: []*shipment.Shipment{
		completedShipment("shp-001"),
		shipment.New("shp-002"),
	}}

	var got *Snapshot
	refresher := NewRefresher(lister, NewAggregator(0), func(s *Snapshot) { got = s })

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got == nil {
		t.Fatalf("sink never received a snapshot")
	}
	if got.TotalShipments != 2 {
		t.Errorf("expected 2 total, got %d", got.TotalShipments)
	}
	if got.CompletedShipments != 1 {
		t.Errorf("expected 1 completed, got %d", got.CompletedShipments)
	}
}

func TestRefresherListError(t *testing.T) {
	listErr := errors.New("backend down")
	refresher := NewRefresher(&staticLister{err: listErr}, NewAggregator(0), func(*Snapshot) {
		t.Errorf("sink called despite list error")
	})

	if err := refresher.Refresh(context.Background()); !errors.Is(err, listErr) {
		t.Errorf("expected list error, got %v", err)
	}
}
