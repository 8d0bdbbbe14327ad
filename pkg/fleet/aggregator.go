package fleet

import (
	"math"
	"time"

	"freightworks/meridian/pkg/shipment"
)

// DefaultCompletionGrace is the synthetic completion offset applied when
// averaging processing durations. Shipment records do not yet carry a
// real completion timestamp, so a completed shipment is treated as
// finished this long after its email arrived. Kept configurable so the
// placeholder is visible in tests and deployments.
const DefaultCompletionGrace = 15 * time.Second

// Snapshot is a point-in-time aggregate over the whole shipment
// collection. Field names are the dashboard wire contract.
type Snapshot struct {
	TotalShipments     int64   `json:"totalShipments"`
	CompletedShipments int64   `json:"completedShipments"`
	SuccessRate        float64 `json:"successRate"`
	ShipmentsAtRisk    int64   `json:"shipmentsAtRisk"`
	FlaggedShipments   int64   `json:"flaggedShipments"`
	TotalCostSaved     float64 `json:"totalCostSaved"`

	// AvgMargin is nil when no shipment carries a gross margin.
	AvgMargin *float64 `json:"avgMargin"`

	EmailShipments int64 `json:"emailShipments"`
	TotalTasks     int64 `json:"totalTasks"`

	// AvgProcessingMinutes is nil when no completed shipment has a
	// received-at timestamp to measure from.
	AvgProcessingMinutes *float64 `json:"avgProcessingMinutes"`

	AvgEfficiency float64   `json:"avgEfficiency"`
	ComputedAt    time.Time `json:"computedAt"`
}

// Aggregator reduces a shipment collection into a Snapshot. Compute is
// pure: it never mutates its input and makes no external calls.
type Aggregator struct {
	grace time.Duration
	now   func() time.Time
}

// NewAggregator creates an aggregator with the given completion grace.
// A non-positive grace falls back to the default.
func NewAggregator(grace time.Duration) *Aggregator {
	if grace <= 0 {
		grace = DefaultCompletionGrace
	}
	return &Aggregator{grace: grace, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Compute scans the collection once and returns the fleet snapshot. An
// empty collection yields a zeroed snapshot with nil duration fields.
func (a *Aggregator) Compute(shipments []*shipment.Shipment) *Snapshot {
	now := a.now().UTC()
	snap := &Snapshot{ComputedAt: now}

	var (
		totalDurationMs float64
		timedCompleted  int64
		marginSum       float64
		marginCount     int64
	)

	for _, s := range shipments {
		if s == nil {
			continue
		}
		snap.TotalShipments++

		if s.Completed() {
			snap.CompletedShipments++
			if s.EmailMetadata != nil && !s.EmailMetadata.ReceivedAt.IsZero() {
				received := s.EmailMetadata.ReceivedAt
				completedAt := received.Add(a.grace)
				if now.Before(completedAt) {
					completedAt = now
				}
				totalDurationMs += float64(completedAt.Sub(received).Milliseconds())
				timedCompleted++
			}
		}

		if s.MonitoringStatus == shipment.MonitoringAtRisk {
			snap.ShipmentsAtRisk++
		}
		if s.ComplianceStatus == shipment.ComplianceFlagged || s.ComplianceStatus == shipment.ComplianceIssues {
			snap.FlaggedShipments++
		}
		if s.CostSaved != nil {
			snap.TotalCostSaved += *s.CostSaved
		}
		if s.GrossMargin != nil {
			marginSum += *s.GrossMargin
			marginCount++
		}
		if s.Source == shipment.SourceEmail {
			snap.EmailShipments++
			if s.EmailMetadata != nil {
				snap.TotalTasks++
			}
		}
	}

	snap.TotalCostSaved = round1(snap.TotalCostSaved)

	if snap.TotalShipments > 0 {
		snap.SuccessRate = round1(float64(snap.CompletedShipments) / float64(snap.TotalShipments) * 100)
	}
	if marginCount > 0 {
		avg := round1(marginSum / float64(marginCount))
		snap.AvgMargin = &avg
	}
	if timedCompleted > 0 {
		avg := round1(totalDurationMs / float64(timedCompleted) / 60000)
		snap.AvgProcessingMinutes = &avg
	}
	if snap.EmailShipments > 0 {
		snap.AvgEfficiency = round1(float64(snap.CompletedShipments) / float64(snap.EmailShipments) * 100)
	}

	return snap
}

// round1 rounds half-up to one decimal place.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
