package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"freightworks/meridian/pkg/config"
)

// Collector is the orchestrator for all Prometheus metrics in Meridian.
// It owns the registry and provides a unified recording interface for
// the lifecycle engine, the HTTP layer, and the fleet gauges.
//
// The collector implements lifecycle.Observer, so it can be handed to
// the engine directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	engineMetrics *EngineMetrics
	fleetMetrics  *FleetMetrics
	httpMetrics   *HTTPMetrics
}

// NewCollector creates a metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "freightworks"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "meridian"
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		engineMetrics: NewEngineMetrics(cfg, registry),
		fleetMetrics:  NewFleetMetrics(cfg, registry),
		httpMetrics:   NewHTTPMetrics(cfg, registry),
	}
}

// ObserveEvent records a processed lifecycle event and its outcome
// ("applied", "rejected", "not_found", "storage_error").
func (c *Collector) ObserveEvent(event, outcome string) {
	if !c.config.Enabled {
		return
	}
	c.engineMetrics.RecordEvent(event, outcome)
}

// ObserveTransition records a phase pointer change.
func (c *Collector) ObserveTransition(from, to string) {
	if !c.config.Enabled {
		return
	}
	c.engineMetrics.RecordTransition(from, to)
}

// ObserveCompliance records a compliance check result and the rules
// that fired.
func (c *Collector) ObserveCompliance(result string, rules []string) {
	if !c.config.Enabled {
		return
	}
	c.engineMetrics.RecordCompliance(result, rules)
}

// UpdateFleet pushes a fleet snapshot into the exported gauges.
func (c *Collector) UpdateFleet(snapshot FleetSnapshot) {
	if !c.config.Enabled {
		return
	}
	c.fleetMetrics.Update(snapshot)
}

// HTTP returns the HTTP middleware metrics.
func (c *Collector) HTTP() *HTTPMetrics {
	return c.httpMetrics
}

// Enabled reports whether metrics collection is active.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
