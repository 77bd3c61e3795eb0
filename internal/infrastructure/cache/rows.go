package cache

import (
	"sync"
	"time"
)

// RowCache memoizes full-sheet value grids for a short fixed TTL so
// that a burst of reads does not hammer the spreadsheet API. Any write
// to the sheet invalidates everything; the window is short enough that
// selective invalidation would buy nothing.
type RowCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]rowEntry
	now     func() time.Time
}

type rowEntry struct {
	rows    [][]string
	storedAt time.Time
}

// NewRowCache creates a row cache with the given TTL.
func NewRowCache(ttl time.Duration) *RowCache {
	return &RowCache{
		ttl:     ttl,
		entries: make(map[string]rowEntry),
		now:     time.Now,
	}
}

// Get returns the cached grid for key, calling load on a miss or after
// the TTL has passed. Load errors are not cached.
func (c *RowCache) Get(key string, load func() ([][]string, error)) ([][]string, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < c.ttl {
		rows := e.rows
		c.mu.Unlock()
		return rows, nil
	}
	c.mu.Unlock()

	rows, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = rowEntry{rows: rows, storedAt: c.now()}
	c.mu.Unlock()
	return rows, nil
}

// Invalidate drops every cached grid.
func (c *RowCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]rowEntry)
	c.mu.Unlock()
}
