package storage

import (
	"context"
	"sort"
	"sync"

	"freightworks/meridian/pkg/shipment"
)

// MemoryStore implements the Store interface using an in-memory map.
// Suitable for tests and small single-process deployments; records do not
// survive a restart.
type MemoryStore struct {
	records map[string]*shipment.Shipment
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*shipment.Shipment),
	}
}

// Put upserts a shipment record and bumps its version counter.
func (s *MemoryStore) Put(ctx context.Context, record *shipment.Shipment) error {
	if record == nil || record.ID == "" {
		return shipment.NewValidationError("id", "missing shipment id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := record.Clone()
	cp.Version++
	s.records[cp.ID] = cp
	record.Version = cp.Version

	return nil
}

// Get retrieves a clone of the shipment with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*shipment.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, shipment.NewNotFoundError(id)
	}
	return record.Clone(), nil
}

// List returns a point-in-time snapshot of the shipments matching the
// filter, ordered by creation time then id.
func (s *MemoryStore) List(ctx context.Context, filter *Filter) ([]*shipment.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*shipment.Shipment{}
	for _, record := range s.records {
		if filter.Matches(record) {
			results = append(results, record.Clone())
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID < results[j].ID
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})

	return paginate(results, filter), nil
}

// Count returns the number of shipments matching the filter.
func (s *MemoryStore) Count(ctx context.Context, filter *Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if filter.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete removes a shipment by id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return shipment.NewNotFoundError(id)
	}
	delete(s.records, id)
	return nil
}

// Close releases the backend's resources.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*shipment.Shipment)
	return nil
}

// Size returns the number of stored records (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// paginate applies the filter's offset and limit to an ordered result set.
func paginate(results []*shipment.Shipment, filter *Filter) []*shipment.Shipment {
	if filter == nil {
		return results
	}

	start := filter.Offset
	if start > len(results) {
		return []*shipment.Shipment{}
	}

	end := len(results)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	return results[start:end]
}
