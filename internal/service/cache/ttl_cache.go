package cache

import (
	"context"
	"sync"
	"time"

	"FundMonitor/internal/domain/models"
)

// TTLCache is an in-process EntryStore.
type TTLCache[T models.Snapshot] struct {
	mu sync.RWMutex
	m  map[string]CacheEntry[T]
}

func NewTTLCache[T models.Snapshot]() *TTLCache[T] {
	return &TTLCache[T]{m: make(map[string]CacheEntry[T])}
}

func (c *TTLCache[T]) Get(_ context.Context, key string) (CacheEntry[T], bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	return e, ok, nil
}

// Set replaces the entry for key. The ttl is enforced by the caller.
func (c *TTLCache[T]) Set(_ context.Context, key string, e CacheEntry[T], _ time.Duration) error {
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
	return nil
}

func (c *TTLCache[T]) Reset(_ context.Context) error {
	c.mu.Lock()
	c.m = make(map[string]CacheEntry[T])
	c.mu.Unlock()
	return nil
}

// Len is the number of stored entries, fresh or not.
func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
