// Package handlers implements the HTTP endpoints of the shipment API:
// the shipment collection, on-demand compliance checks, externally
// triggered phase transitions, the fleet metrics snapshot, and exports.
//
// Handlers depend on narrow interfaces (LifecycleEngine, Ingestor) so
// tests can drive them against in-memory fakes. Domain errors map to
// status codes through a single writeError: validation 400, not found
// 404, invalid transition 409, storage failures 500.
package handlers
