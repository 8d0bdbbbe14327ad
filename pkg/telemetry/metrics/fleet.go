package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"freightworks/meridian/pkg/config"
)

// FleetSnapshot carries the aggregate values pushed into the exported
// gauges. Mirrors the dashboard snapshot without depending on it.
type FleetSnapshot struct {
	TotalShipments     int64
	CompletedShipments int64
	SuccessRate        float64
	ShipmentsAtRisk    int64
	FlaggedShipments   int64
	EmailShipments     int64
	TotalCostSaved     float64
}

// FleetMetrics exposes the fleet aggregate as Prometheus gauges,
// refreshed by the scheduler.
type FleetMetrics struct {
	shipmentsTotal     prometheus.Gauge
	shipmentsCompleted prometheus.Gauge
	successRate        prometheus.Gauge
	shipmentsAtRisk    prometheus.Gauge
	shipmentsFlagged   prometheus.Gauge
	emailShipments     prometheus.Gauge
	costSavedTotal     prometheus.Gauge
}

// NewFleetMetrics creates and registers fleet gauges with the provided
// registry.
func NewFleetMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FleetMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	fm := &FleetMetrics{
		shipmentsTotal:     gauge("shipments_total", "Current number of shipments"),
		shipmentsCompleted: gauge("shipments_completed", "Shipments that finished billing"),
		successRate:        gauge("fleet_success_rate", "Completed shipments as a percentage of all shipments"),
		shipmentsAtRisk:    gauge("shipments_at_risk", "Shipments classified at risk"),
		shipmentsFlagged:   gauge("shipments_flagged", "Shipments with compliance issues or flags"),
		emailShipments:     gauge("shipments_from_email", "Shipments ingested from email"),
		costSavedTotal:     gauge("fleet_cost_saved_total", "Accumulated cost savings across the fleet"),
	}

	registry.MustRegister(
		fm.shipmentsTotal,
		fm.shipmentsCompleted,
		fm.successRate,
		fm.shipmentsAtRisk,
		fm.shipmentsFlagged,
		fm.emailShipments,
		fm.costSavedTotal,
	)

	return fm
}

// Update pushes a snapshot into the gauges.
func (fm *FleetMetrics) Update(snapshot FleetSnapshot) {
	fm.shipmentsTotal.Set(float64(snapshot.TotalShipments))
	fm.shipmentsCompleted.Set(float64(snapshot.CompletedShipments))
	fm.successRate.Set(snapshot.SuccessRate)
	fm.shipmentsAtRisk.Set(float64(snapshot.ShipmentsAtRisk))
	fm.shipmentsFlagged.Set(float64(snapshot.FlaggedShipments))
	fm.emailShipments.Set(float64(snapshot.EmailShipments))
	fm.costSavedTotal.Set(snapshot.TotalCostSaved)
}
