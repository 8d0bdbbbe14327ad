// Meridian is a shipment lifecycle and compliance engine for freight
// operations.
//
// It tracks every shipment through a five-phase lifecycle (intake,
// compliance, monitoring, arrival, billing), providing:
//   - Rule-based compliance screening with a high-risk port watchlist
//   - Schedule risk classification from ETA variance
//   - Fleet-level KPI aggregation for the operations dashboard
//   - Lifecycle event notifications over Kafka
//
// Usage:
//
//	# Start the API server with default configuration
//	meridian run
//
//	# Start with a custom configuration file
//	meridian run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	meridian validate --config /path/to/config.yaml
//
//	# List shipments from a running server
//	meridian shipments --address http://127.0.0.1:8420
//
//	# Show version information
//	meridian version
package main

func main() {
	Execute()
}
