// Package cache provides a small time-bounded cache for a single value.
package cache

import (
	"sync"
	"time"
)

// Cache holds one value of type T with an expiry deadline. The zero TTL
// means entries never expire until invalidated.
type Cache[T any] struct {
	mu        sync.Mutex
	data      T
	expiresAt time.Time
	populated bool
	ttl       time.Duration
	now       func() time.Time
}

// New creates an empty cache whose entries live for ttl after each Set.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached value and true when a live entry is present.
// An expired or never-set entry returns the zero value and false.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if !c.populated {
		return zero, false
	}
	if c.ttl > 0 && c.now().After(c.expiresAt) {
		c.data = zero
		c.populated = false
		return zero, false
	}
	return c.data, true
}

// Set stores data and restarts the TTL window.
func (c *Cache[T]) Set(data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = data
	c.populated = true
	if c.ttl > 0 {
		c.expiresAt = c.now().Add(c.ttl)
	}
}

// Invalidate drops the cached value; the next Get misses.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.data = zero
	c.populated = false
	c.expiresAt = time.Time{}
}
