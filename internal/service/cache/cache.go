package cache

import (
	"context"
	"time"

	"FundMonitor/internal/domain/models"
)

// CacheEntry wraps a snapshot with the time it was stored. Entries are
// replaced, never mutated.
type CacheEntry[T models.Snapshot] struct {
	Snapshot T         `json:"snapshot"`
	CachedAt time.Time `json:"cached_at"`
}

// EntryStore is the backing store for a SnapshotCache. Freshness is decided
// by the cache, not the store; Get may return an expired entry.
type EntryStore[T models.Snapshot] interface {
	Get(ctx context.Context, key string) (CacheEntry[T], bool, error)
	Set(ctx context.Context, key string, e CacheEntry[T], ttl time.Duration) error
	Reset(ctx context.Context) error
}
