// Package fleet computes fleet-wide health metrics over the shipment
// collection. The aggregator is a pure one-pass reduction producing a
// dashboard snapshot; the export subpackage serializes the underlying
// records.
package fleet
