// Package storage provides persistence backends for shipment records.
//
// Three implementations of the Store interface are available:
//
//   - MemoryStore: in-memory map, suitable for tests and single-node
//     deployments without durability requirements
//   - SQLiteStore: file-backed SQLite database with WAL mode, the
//     default for single-node deployments
//   - PostgresStore: PostgreSQL backend for deployments where multiple
//     replicas share one store
//
// All backends return deep copies of stored records, so callers may
// mutate results freely. Put bumps the record's version counter on
// every write; Get and Delete return a NotFoundError for unknown ids.
package storage
