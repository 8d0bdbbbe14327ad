package dedup

import (
	"context"
	"time"
)

// Backend records ingestion keys (email message ids) so a document that
// arrives twice produces one shipment. Entries carry the time they were
// first seen; Prune drops entries older than a cutoff.
type Backend interface {
	// Seen reports whether the key has been recorded.
	Seen(ctx context.Context, key string) (bool, error)

	// Remember records the key as seen at the given time. Recording an
	// existing key keeps the original timestamp.
	Remember(ctx context.Context, key string, at time.Time) error

	// Prune removes entries first seen before the cutoff and returns
	// how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the backend's resources.
	Close() error
}
