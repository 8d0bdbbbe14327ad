package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"freightworks/meridian/pkg/config"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	cfg := &config.MetricsConfig{Enabled: true}
	return NewCollector(cfg, prometheus.NewRegistry())
}

func counterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, labels) {
				if metric.GetCounter() != nil {
					return metric.GetCounter().GetValue()
				}
				return metric.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	got := map[string]string{}
	for _, pair := range metric.GetLabel() {
		got[pair.GetName()] = pair.GetValue()
	}
	for k, v := range labels {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestCollectorObserveEvent(t *testing.T) {
	c := newTestCollector(t)

	c.ObserveEvent("compliance_check", "applied")
	c.ObserveEvent("compliance_check", "applied")
	c.ObserveEvent("arrival_confirmed", "rejected")

	applied := counterValue(t, c.Registry(), "freightworks_meridian_events_total",
		map[string]string{"event": "compliance_check", "outcome": "applied"})
	if applied != 2 {
		t.Errorf("expected 2 applied compliance checks, got %v", applied)
	}

	rejected := counterValue(t, c.Registry(), "freightworks_meridian_events_total",
		map[string]string{"event": "arrival_confirmed", "outcome": "rejected"})
	if rejected != 1 {
		t.Errorf("expected 1 rejected arrival, got %v", rejected)
	}
}

func TestCollectorObserveCompliance(t *testing.T) {
	c := newTestCollector(t)

	c.ObserveCompliance("issues", []string{"shipper", "eta"})
	c.ObserveCompliance("ok", nil)

	checks := counterValue(t, c.Registry(), "freightworks_meridian_compliance_checks_total",
		map[string]string{"result": "issues"})
	if checks != 1 {
		t.Errorf("expected 1 issues check, got %v", checks)
	}

	violations := counterValue(t, c.Registry(), "freightworks_meridian_compliance_violations_total",
		map[string]string{"rule": "shipper"})
	if violations != 1 {
		t.Errorf("expected 1 shipper violation, got %v", violations)
	}
}

func TestCollectorDisabled(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: false}
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.ObserveEvent("created", "applied")

	total := counterValue(t, c.Registry(), "freightworks_meridian_events_total",
		map[string]string{"event": "created", "outcome": "applied"})
	if total != 0 {
		t.Errorf("disabled collector recorded an event")
	}
}

func TestCollectorUpdateFleet(t *testing.T) {
	c := newTestCollector(t)

	c.UpdateFleet(FleetSnapshot{
		TotalShipments:     10,
		CompletedShipments: 4,
		SuccessRate:        40.0,
		ShipmentsAtRisk:    2,
	})

	total := counterValue(t, c.Registry(), "freightworks_meridian_shipments_total", nil)
	if total != 10 {
		t.Errorf("expected shipments_total 10, got %v", total)
	}
	rate := counterValue(t, c.Registry(), "freightworks_meridian_fleet_success_rate", nil)
	if rate != 40.0 {
		t.Errorf("expected success rate 40, got %v", rate)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveTransition("intake", "compliance")
	c.HTTP().RecordRequest("GET", "/shipments", 200, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "freightworks_meridian_transitions_total") {
		t.Errorf("transitions metric missing from exposition")
	}
	if !strings.Contains(body, "freightworks_meridian_http_requests_total") {
		t.Errorf("http metric missing from exposition")
	}
}
