// Package monitoring derives the coarse delivery-risk label from ETA
// variance while a shipment is in transit.
package monitoring

import (
	"time"

	"freightworks/meridian/pkg/shipment"
)

// Default classification thresholds. The true operational values are
// deployment-specific, so both are exposed through configuration.
const (
	// DefaultEarlyThreshold is how far ahead of plan a shipment must run
	// to be labeled early.
	DefaultEarlyThreshold = 6 * time.Hour

	// DefaultRiskThreshold is how far behind plan a shipment must run to
	// be labeled at risk.
	DefaultRiskThreshold = 12 * time.Hour
)

// Classifier maps ETA variance to a monitoring status. Classification is
// pure; it is invoked whenever the current ETA changes and on
// monitoring-phase heartbeats.
type Classifier struct {
	earlyThreshold time.Duration
	riskThreshold  time.Duration
}

// NewClassifier creates a classifier with the given thresholds.
// Non-positive thresholds fall back to the defaults.
func NewClassifier(earlyThreshold, riskThreshold time.Duration) *Classifier {
	if earlyThreshold <= 0 {
		earlyThreshold = DefaultEarlyThreshold
	}
	if riskThreshold <= 0 {
		riskThreshold = DefaultRiskThreshold
	}
	return &Classifier{earlyThreshold: earlyThreshold, riskThreshold: riskThreshold}
}

// Classify returns the risk label for the shipment's current ETA variance.
// When either the planned or current ETA is missing, or the shipment has
// not yet entered the monitoring phase, the label is unset. The most
// specific band wins: early, then at_risk, then on_track.
//
// Classify never changes the phase pointer; leaving monitoring is driven
// only by an explicit arrival confirmation.
func (c *Classifier) Classify(s *shipment.Shipment) shipment.MonitoringStatus {
	if s.PhaseProgress[shipment.PhaseMonitoring] == shipment.ProgressPending {
		return shipment.MonitoringUnset
	}
	if !s.HasETAVariance() {
		return shipment.MonitoringUnset
	}

	variance := time.Duration(s.ETAVarianceHours * float64(time.Hour))
	switch {
	case variance <= -c.earlyThreshold:
		return shipment.MonitoringEarly
	case variance >= c.riskThreshold:
		return shipment.MonitoringAtRisk
	default:
		return shipment.MonitoringOnTrack
	}
}

// Apply classifies the shipment and writes the result into its monitoring
// status, returning the label.
func (c *Classifier) Apply(s *shipment.Shipment) shipment.MonitoringStatus {
	s.Normalize()
	s.MonitoringStatus = c.Classify(s)
	return s.MonitoringStatus
}
