package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/redis/go-redis/v9"
)

// RedisDedupStore implements orders.DedupStore using Redis. This is
// the backend to use when several instances submit against the same
// spreadsheet and need to share the double-submit history.
type RedisDedupStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDedupStore creates a Redis-backed dedup store and verifies
// the connection.
func NewRedisDedupStore(cfg RedisConfig) (*RedisDedupStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupStore{
		client:    client,
		keyPrefix: "submit:dedup:",
	}, nil
}

// NewRedisDedupStoreWithClient creates a store with an existing client,
// useful for testing or when sharing a client across components.
func NewRedisDedupStoreWithClient(client *redis.Client, keyPrefix string) *RedisDedupStore {
	if keyPrefix == "" {
		keyPrefix = "submit:dedup:"
	}
	return &RedisDedupStore{client: client, keyPrefix: keyPrefix}
}

// MarkSeen records the fingerprint with a TTL. SETNX keeps the check
// and the write atomic across instances; the TTL bounds the history,
// no explicit window size is needed.
func (s *RedisDedupStore) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+fingerprint, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record submission fingerprint: %w", err)
	}
	return ok, nil
}

// Close closes the Redis client
func (s *RedisDedupStore) Close() error {
	return s.client.Close()
}

var _ orders.DedupStore = (*RedisDedupStore)(nil)
