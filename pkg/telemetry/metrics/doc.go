// Package metrics provides Prometheus metrics collection for Meridian.
//
// The Collector owns a registry and three metric groups:
//
//   - engine: lifecycle events, phase transitions, compliance results
//   - fleet: gauges mirroring the dashboard snapshot
//   - http: request counts and latency for the API surface
//
// The Collector satisfies the engine's Observer interface and exposes a
// promhttp handler for scraping.
package metrics
