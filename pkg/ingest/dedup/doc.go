// Package dedup tracks already-ingested document keys so repeated
// deliveries of the same email or upload do not create duplicate
// shipments. Backends: in-memory for tests, SQLite for durability.
package dedup
