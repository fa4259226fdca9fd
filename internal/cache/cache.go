// Package cache is a small in-memory TTL cache used for lookups that
// repeat on every request, like email-settings resolution and per-org
// service catalogs.
package cache

import (
	"sync"
	"time"
)

type item struct {
	data      any
	expiresAt time.Time
}

// Cache represents a simple in-memory cache
type Cache struct {
	items map[string]*item
	mutex sync.RWMutex
}

// New creates a new cache instance
func New() *Cache {
	return &Cache{
		items: make(map[string]*item),
	}
}

// Get retrieves an item from the cache; expired entries read as misses
func (c *Cache) Get(key string) (any, bool) {
	c.mutex.RLock()
	entry, exists := c.items[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.Delete(key)
		return nil, false
	}

	return entry.data, true
}

// Set stores an item in the cache with TTL
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &item{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]*item)
}
