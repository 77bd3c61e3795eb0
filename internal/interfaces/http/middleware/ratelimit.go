package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

// RateLimiter implements a fixed-window in-memory rate limiter keyed
// by client IP. Counts reset when a client's window elapses; there is
// no carry-over between windows.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*window
	limit       int
	windowSize  time.Duration
	cleanupTick time.Duration
	now         func() time.Time
}

type window struct {
	count   int
	started time.Time
}

// NewRateLimiter creates a new rate limiter allowing limit requests
// per windowSize and starts its background cleanup.
func NewRateLimiter(limit int, windowSize time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*window),
		limit:       limit,
		windowSize:  windowSize,
		cleanupTick: windowSize * 2,
		now:         time.Now,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.clients {
			if now.Sub(w.started) > rl.windowSize*2 {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow counts a request against the key's current window and reports
// whether it fits the budget.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.clients[key]
	if !exists || now.Sub(w.started) >= rl.windowSize {
		rl.clients[key] = &window{count: 1, started: now}
		return true
	}

	if w.count < rl.limit {
		w.count++
		return true
	}
	return false
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.clients[key]
	if !exists || rl.now().Sub(w.started) >= rl.windowSize {
		return rl.limit
	}
	return rl.limit - w.count
}

// RateLimit returns a rate limiting middleware keyed by client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
			))
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limiter.Remaining(key)))
		c.Next()
	}
}
