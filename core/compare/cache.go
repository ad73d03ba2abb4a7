package compare

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache keeps recent comparison results keyed by source pair and policy.
// Builds for the same key are deduplicated with singleflight.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	results map[string]*Result
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates a cache. A zero TTL disables caching: every call rebuilds.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		results: make(map[string]*Result),
		now:     time.Now,
	}
}

// CacheKey returns the cache key for a comparison.
func CacheKey(one, two Source, opts Options) string {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyFirst
	}
	return one.Name() + "|" + two.Name() + "|" + policy
}

func (c *Cache) expired(r *Result) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(r.Built) > c.ttl
}

// GetOrRun returns a fresh cached result, or runs the comparison and stores it.
func (c *Cache) GetOrRun(ctx context.Context, one, two Source, opts Options) (*Result, error) {
	key := CacheKey(one, two, opts)

	c.mu.RLock()
	result, exists := c.results[key]
	c.mu.RUnlock()

	if exists && !c.expired(result) {
		return result, nil
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		result, exists := c.results[key]
		c.mu.RUnlock()

		if exists && !c.expired(result) {
			return result, nil
		}

		fresh, err := Run(ctx, one, two, opts)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.results[key] = fresh
		c.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Result), nil
}

// Invalidate drops the cached result for a comparison.
func (c *Cache) Invalidate(one, two Source, opts Options) {
	key := CacheKey(one, two, opts)
	c.mu.Lock()
	delete(c.results, key)
	c.mu.Unlock()
}
