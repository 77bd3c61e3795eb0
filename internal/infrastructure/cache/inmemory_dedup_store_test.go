package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDedupStore_RejectsWithinHorizon(t *testing.T) {
	s := NewInMemoryDedupStore(200)
	ctx := context.Background()

	fresh, err := s.MarkSeen(ctx, "fp-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = s.MarkSeen(ctx, "fp-1", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestInMemoryDedupStore_AcceptsAfterHorizon(t *testing.T) {
	s := NewInMemoryDedupStore(200)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	fresh, err := s.MarkSeen(ctx, "fp-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, fresh)

	now = now.Add(6 * time.Second)
	fresh, err = s.MarkSeen(ctx, "fp-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryDedupStore_BoundedHistory(t *testing.T) {
	s := NewInMemoryDedupStore(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.MarkSeen(ctx, fmt.Sprintf("fp-%d", i), time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Size())

	// the evicted oldest fingerprint reads as fresh again
	fresh, err := s.MarkSeen(ctx, "fp-0", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}
