package cache

import (
	"context"
	"fmt"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/domain/repository"
	"FundMonitor/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 30 * time.Second

// FetchFunc loads a fresh snapshot from upstream.
type FetchFunc[T models.Snapshot] func(ctx context.Context) (T, error)

// SnapshotCache answers "is the last snapshot still fresh?" and fetches when
// it is not. Concurrent misses for the same key share a single fetch.
type SnapshotCache[T models.Snapshot] struct {
	kind    models.AssetKind
	store   EntryStore[T]
	ttl     time.Duration
	now     func() time.Time
	group   singleflight.Group
	metrics repository.Metrics
	log     *logger.Logger
}

type Option[T models.Snapshot] func(*SnapshotCache[T])

// WithClock replaces time.Now.
func WithClock[T models.Snapshot](now func() time.Time) Option[T] {
	return func(c *SnapshotCache[T]) { c.now = now }
}

func WithMetrics[T models.Snapshot](m repository.Metrics) Option[T] {
	return func(c *SnapshotCache[T]) {
		if m != nil {
			c.metrics = m
		}
	}
}

func WithLogger[T models.Snapshot](l *logger.Logger) Option[T] {
	return func(c *SnapshotCache[T]) {
		if l != nil {
			c.log = l
		}
	}
}

func NewSnapshotCache[T models.Snapshot](kind models.AssetKind, store EntryStore[T], ttl time.Duration, opts ...Option[T]) *SnapshotCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &SnapshotCache[T]{
		kind:    kind,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		metrics: repository.NopMetrics{},
		log:     logger.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetOrFetch returns the cached snapshot for key while it is younger than
// the TTL, otherwise calls fetch. A failed or invalid fetch stores nothing
// and is returned to the caller; stale entries are never served.
func (c *SnapshotCache[T]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	if s, ok := c.fresh(ctx, key); ok {
		c.metrics.RecordCache(c.kind, true)
		return s, nil
	}
	c.metrics.RecordCache(c.kind, false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// another caller may have filled the entry while we waited
		if s, ok := c.fresh(ctx, key); ok {
			return s, nil
		}
		s, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%s %s: %w", c.kind, key, err)
		}
		entry := CacheEntry[T]{Snapshot: s, CachedAt: c.now()}
		if err := c.store.Set(ctx, key, entry, c.ttl); err != nil {
			c.log.Warn("cache store failed",
				logger.String("kind", string(c.kind)),
				logger.String("key", key),
				logger.Error(err))
		}
		return s, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Peek returns the stored entry for key regardless of age.
func (c *SnapshotCache[T]) Peek(ctx context.Context, key string) (CacheEntry[T], bool) {
	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return e, false
	}
	return e, ok
}

// Reset drops every entry so the next cycle refetches.
func (c *SnapshotCache[T]) Reset(ctx context.Context) error {
	return c.store.Reset(ctx)
}

func (c *SnapshotCache[T]) TTL() time.Duration { return c.ttl }

func (c *SnapshotCache[T]) fresh(ctx context.Context, key string) (T, bool) {
	var zero T
	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed",
			logger.String("kind", string(c.kind)),
			logger.String("key", key),
			logger.Error(err))
		return zero, false
	}
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.CachedAt) >= c.ttl {
		return zero, false
	}
	return e.Snapshot, true
}
