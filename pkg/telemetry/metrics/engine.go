package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"freightworks/meridian/pkg/config"
)

// EngineMetrics tracks lifecycle engine activity.
//
// Metrics:
//   - freightworks_meridian_events_total: processed events by kind and outcome
//   - freightworks_meridian_transitions_total: phase pointer changes
//   - freightworks_meridian_compliance_checks_total: check results
//   - freightworks_meridian_compliance_violations_total: fired rules
type EngineMetrics struct {
	eventsTotal      *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	checksTotal      *prometheus.CounterVec
	violationsTotal  *prometheus.CounterVec
}

// NewEngineMetrics creates and registers engine metrics with the
// provided registry.
func NewEngineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "events_total",
				Help:      "Total number of lifecycle events processed",
			},
			[]string{"event", "outcome"},
		),

		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "transitions_total",
				Help:      "Total number of phase transitions",
			},
			[]string{"from", "to"},
		),

		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compliance_checks_total",
				Help:      "Total number of compliance checks by result",
			},
			[]string{"result"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compliance_violations_total",
				Help:      "Total number of compliance rule violations",
			},
			[]string{"rule"},
		),
	}

	registry.MustRegister(
		em.eventsTotal,
		em.transitionsTotal,
		em.checksTotal,
		em.violationsTotal,
	)

	return em
}

// RecordEvent records a processed lifecycle event.
func (em *EngineMetrics) RecordEvent(event, outcome string) {
	em.eventsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordTransition records a phase pointer change.
func (em *EngineMetrics) RecordTransition(from, to string) {
	em.transitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordCompliance records a check result and its fired rules.
func (em *EngineMetrics) RecordCompliance(result string, rules []string) {
	em.checksTotal.WithLabelValues(result).Inc()
	for _, rule := range rules {
		em.violationsTotal.WithLabelValues(rule).Inc()
	}
}
