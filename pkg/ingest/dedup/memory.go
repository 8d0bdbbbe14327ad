package dedup

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps seen keys in a map. Suitable for tests and
// single-node deployments that can tolerate re-ingestion after restart.
type MemoryBackend struct {
	mu   sync.RWMutex
	seen map[string]time.Time
}

// NewMemoryBackend creates an empty in-memory dedup backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{seen: make(map[string]time.Time)}
}

// Seen reports whether the key has been recorded.
func (b *MemoryBackend) Seen(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.seen[key]
	return ok, nil
}

// Remember records the key, keeping the earliest timestamp.
func (b *MemoryBackend) Remember(ctx context.Context, key string, at time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.seen[key]; !ok {
		b.seen[key] = at
	}
	return nil
}

// Prune removes entries first seen before the cutoff.
func (b *MemoryBackend) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed int64
	for key, at := range b.seen {
		if at.Before(cutoff) {
			delete(b.seen, key)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}
