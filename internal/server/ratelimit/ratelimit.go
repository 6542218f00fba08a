// Package ratelimit provides per-client request throttling using the
// token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// staleAfter is how long an untouched bucket survives before cleanup.
const staleAfter = time.Hour

// bucket is a single token bucket. Tokens refill continuously at
// refillRate per second up to capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

// refill credits tokens for the time elapsed since the last refill.
// Caller must hold b.mu.
func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// allow consumes one token if available.
func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)
	b.lastUsed = now

	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// getStatus reports remaining tokens and the time the bucket will be
// full again, without consuming anything.
func (b *bucket) getStatus() (remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refill(now)

	remaining = int(b.tokens)
	resetTime = now
	if b.tokens < b.capacity {
		secondsUntilFull := (b.capacity - b.tokens) / b.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return remaining, resetTime
}

func (b *bucket) usedSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed.After(cutoff)
}

// Info describes the rate limit state for one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter tracks one bucket per client+endpoint+method combination.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	config  *Config
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its background cleanup when
// the config enables one.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.ticker = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow reports whether a request from clientID to the given endpoint
// and method may proceed, along with the current limit state.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	// Limit <= 0 marks an unlimited endpoint.
	if endpointConfig.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + endpoint + ":" + method
	b := l.getBucket(key, endpointConfig)

	allowed := b.allow()
	remaining, resetTime := b.getStatus()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpointConfig.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) getBucket(key string, cfg *EndpointConfig) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = cfg.Limit
	}
	refillRate := float64(cfg.Limit) / cfg.Window.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.buckets[key]; ok {
		return existing
	}
	b = newTokenBucket(capacity, refillRate)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.ticker.C:
			l.removeStaleBuckets()
		case <-l.stop:
			return
		}
	}
}

// removeStaleBuckets drops buckets untouched for over an hour so idle
// clients do not accumulate forever.
func (l *Limiter) removeStaleBuckets() {
	cutoff := time.Now().Add(-staleAfter)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if !b.usedSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
