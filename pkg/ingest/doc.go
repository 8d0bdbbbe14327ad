// Package ingest brings inbound shipment documents into the lifecycle
// engine: id assignment, validation, deduplication by email message id,
// and the initial creation plus compliance check.
package ingest
