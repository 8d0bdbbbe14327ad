// Package lifecycle drives shipments through their five phases: intake,
// compliance, monitoring, arrival, and billing.
//
// The Machine is a pure function from (shipment, event) to an updated
// shipment value; it never mutates its input and rejects events whose
// guards fail. The Engine wraps the machine with storage, per-shipment
// serialization, event publication, and metrics observation.
package lifecycle
