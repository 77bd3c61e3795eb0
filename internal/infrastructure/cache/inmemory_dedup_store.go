package cache

import (
	"context"
	"sync"
	"time"

	"github.com/orderdesk/backend/internal/domain/orders"
)

// InMemoryDedupStore implements orders.DedupStore with a bounded
// in-process history. Suitable for single-instance deployments and
// testing; the guard is best-effort, not a uniqueness constraint.
type InMemoryDedupStore struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	order    []string // insertion order, oldest first
	capacity int
	now      func() time.Time
}

// NewInMemoryDedupStore creates a dedup store that remembers at most
// capacity fingerprints.
func NewInMemoryDedupStore(capacity int) *InMemoryDedupStore {
	return &InMemoryDedupStore{
		seen:     make(map[string]time.Time, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// MarkSeen records the fingerprint and returns true when it was not
// seen within ttl. When the history is full the oldest entry is
// evicted, so under heavy traffic the guard degrades gracefully
// rather than growing without bound.
func (s *InMemoryDedupStore) MarkSeen(_ context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if at, ok := s.seen[fingerprint]; ok && now.Sub(at) < ttl {
		return false, nil
	}

	if _, ok := s.seen[fingerprint]; !ok {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.seen, oldest)
		}
		s.order = append(s.order, fingerprint)
	}
	s.seen[fingerprint] = now
	return true, nil
}

// Close releases resources. The in-memory store has none.
func (s *InMemoryDedupStore) Close() error {
	return nil
}

// Size returns the number of remembered fingerprints (for testing)
func (s *InMemoryDedupStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

var _ orders.DedupStore = (*InMemoryDedupStore)(nil)
