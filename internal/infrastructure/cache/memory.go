package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nutrilens/backend/internal/domain"
)

// cacheItem is one resolved food plus its expiry
type cacheItem struct {
	food       *domain.CanonicalFood
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache for resolved canonical foods
// with per-entry TTL. Entries are stored as copies so callers can mutate the
// returned value without corrupting the cache.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts a background
// sweeper that evicts expired entries every 10 minutes.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	go c.cleanupExpired()

	return c
}

// Get retrieves a resolved food. Returns ErrCacheMiss when the key is absent
// or expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.CanonicalFood, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	food := *item.food
	return &food, nil
}

// Set stores a resolved food with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, food *domain.CanonicalFood, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	copied := *food
	c.data[key] = cacheItem{
		food:       &copied,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists reports whether the key is present and not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(item.expiration) {
		return false, nil
	}

	return true, nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
