// Package shipment defines the central shipment entity, its lifecycle
// enums, and the error taxonomy shared by the engine packages.
//
// # Data Model
//
// A Shipment moves through five sequential phases:
//
//	intake → compliance → monitoring → arrival → billing
//
// Each phase carries its own progress sub-state (pending → in_progress →
// done). The progress map always contains exactly the five canonical keys;
// Normalize restores this invariant on records arriving from external
// collaborators.
//
// # Invariants
//
//   - Phase order is strictly monotonic; a done phase never regresses.
//   - ComplianceIssues is empty if and only if ComplianceStatus is ok.
//   - MonitoringStatus is unset until the monitoring phase has started.
//   - A shipment is terminal when the billing phase progress is done.
//
// # Errors
//
// The package defines the typed failures returned across the engine:
// NotFoundError (unknown shipment id), InvalidTransitionError (event guard
// unsatisfied, state untouched), ValidationError (malformed inbound record,
// rejected before persistence), and StorageError (backend failures).
// Callers classify them with IsNotFound, IsInvalidTransition, and
// IsValidation, which follow errors.As through wrapped chains.
package shipment
