// Package usercount memoizes the expensive member-count aggregate behind a
// fixed TTL. The cache has exactly one slot; time is the only invalidation
// signal, so callers tolerate up to TTL of staleness.
package usercount

import (
	"context"
	"log"
	"sync"
	"time"
)

// Source tells callers how trustworthy a count is. Estimates come from the
// proxy aggregate, stale values from an expired cache entry kept as a last
// resort.
type Source string

const (
	SourceAuthoritative Source = "authoritative"
	SourceEstimate      Source = "estimate"
	SourceStale         Source = "stale"
	SourceNone          Source = "none"
)

type CountResult struct {
	Count  int    `json:"count"`
	Source Source `json:"source"`
}

type CountFunc func(ctx context.Context) (int, error)

type Cache struct {
	primary  CountFunc
	fallback CountFunc
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	value     CountResult
	fetchedAt time.Time
	cached    bool
}

type Option func(*Cache)

// WithClock replaces the wall clock, so tests can advance time instead of
// sleeping through the TTL.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func New(primary, fallback CountFunc, opts ...Option) *Cache {
	c := &Cache{
		primary:  primary,
		fallback: fallback,
		ttl:      60 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the member count. A fresh cached value is returned without any
// external call; otherwise the primary source is tried, then the fallback
// proxy, then the last cached value regardless of age, then zero.
func (c *Cache) Get(ctx context.Context) CountResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.cached && now.Sub(c.fetchedAt) < c.ttl {
		return c.value
	}

	if count, err := c.primary(ctx); err == nil {
		c.store(CountResult{Count: count, Source: SourceAuthoritative}, now)
		return c.value
	} else {
		log.Printf("usercount primary source failed: %v", err)
	}

	if count, err := c.fallback(ctx); err == nil {
		c.store(CountResult{Count: count, Source: SourceEstimate}, now)
		return c.value
	} else {
		log.Printf("usercount fallback source failed: %v", err)
	}

	if c.cached {
		stale := c.value
		stale.Source = SourceStale
		return stale
	}
	return CountResult{Count: 0, Source: SourceNone}
}

// Reset drops the cached slot. Called on sign-out so no count tied to a
// previous identity survives.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = CountResult{}
	c.fetchedAt = time.Time{}
	c.cached = false
}

func (c *Cache) store(value CountResult, now time.Time) {
	c.value = value
	c.fetchedAt = now
	c.cached = true
}
