package cache

import (
	"fmt"

	"github.com/orderdesk/backend/internal/domain/orders"
	"go.uber.org/zap"
)

// DedupStoreFactory creates dedup stores based on configuration
type DedupStoreFactory struct {
	backend               string
	window                int
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// DedupStoreFactoryOption is a functional option for configuring the factory
type DedupStoreFactoryOption func(*DedupStoreFactory)

// WithRedis selects the Redis backend with the given connection settings
func WithRedis(cfg RedisConfig) DedupStoreFactoryOption {
	return func(f *DedupStoreFactory) {
		f.backend = "redis"
		f.redisConfig = cfg
	}
}

// WithWindow sets the bounded history size for the in-memory backend
func WithWindow(n int) DedupStoreFactoryOption {
	return func(f *DedupStoreFactory) {
		f.window = n
	}
}

// WithInMemoryFallback allows falling back to the in-memory backend
// when Redis is unreachable, instead of failing startup. The fallback
// weakens the guard to per-instance scope, so it is logged loudly.
func WithInMemoryFallback() DedupStoreFactoryOption {
	return func(f *DedupStoreFactory) {
		f.allowInMemoryFallback = true
	}
}

// NewDedupStoreFactory creates a factory with the given options
func NewDedupStoreFactory(logger *zap.Logger, opts ...DedupStoreFactoryOption) *DedupStoreFactory {
	f := &DedupStoreFactory{
		backend: "memory",
		window:  200,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a dedup store for the configured backend
func (f *DedupStoreFactory) Create() (orders.DedupStore, error) {
	switch f.backend {
	case "memory":
		return NewInMemoryDedupStore(f.window), nil
	case "redis":
		store, err := NewRedisDedupStore(f.redisConfig)
		if err == nil {
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis dedup backend unavailable, falling back to in-memory store",
			zap.Error(err),
			zap.Int("window", f.window),
		)
		return NewInMemoryDedupStore(f.window), nil
	default:
		return nil, fmt.Errorf("unknown dedup backend %q", f.backend)
	}
}
