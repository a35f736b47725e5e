package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerSecond int `json:"requestsPerSecond"`
	MaxRetries        int `json:"maxRetries"`
	InitialBackoffMs  int `json:"initialBackoffMs"`
	MaxBackoffMs      int `json:"maxBackoffMs"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		MaxRetries:        3,
		InitialBackoffMs:  100,
		MaxBackoffMs:      30000,
	}
}

// RateLimiter spaces requests out to respect a requests-per-second budget
type RateLimiter struct {
	mu          sync.Mutex
	config      Config
	lastRequest int64 // Unix nanoseconds of last request
}

// NewRateLimiter creates a new rate limiter with the given config
func NewRateLimiter(config Config) *RateLimiter {
	return &RateLimiter{
		config: config,
	}
}

// GetConfig returns the current configuration
func (r *RateLimiter) GetConfig() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig updates the configuration
func (r *RateLimiter) SetConfig(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
}

// Throttle waits to ensure rate limits are respected.
// Call this before making a request.
func (r *RateLimiter) Throttle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.RequestsPerSecond <= 0 {
		return
	}

	now := time.Now().UnixNano()
	minInterval := int64(1000_000_000 / r.config.RequestsPerSecond) // nanoseconds

	elapsed := now - r.lastRequest
	if elapsed < minInterval {
		time.Sleep(time.Duration(minInterval - elapsed))
	}

	r.lastRequest = time.Now().UnixNano()
}

// Reset resets the rate limiter state
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastRequest = 0
}
