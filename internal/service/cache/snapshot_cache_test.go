package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"FundMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newIndexCache(clk *fakeClock) *SnapshotCache[models.IndexSnapshot] {
	return NewSnapshotCache[models.IndexSnapshot](models.KindIndex, NewTTLCache[models.IndexSnapshot](), DefaultTTL,
		WithClock[models.IndexSnapshot](clk.Now))
}

func quote(t *testing.T, current float64) models.IndexSnapshot {
	t.Helper()
	s, err := models.NewIndexSnapshot("sh000001", "上证指数", current, 3000, time.Now())
	require.NoError(t, err)
	return s
}

func TestGetOrFetchWithinTTLFetchesOnce(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)}
	c := newIndexCache(clk)
	var calls int32
	fetch := func(context.Context) (models.IndexSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		return quote(t, 3030), nil
	}

	ctx := context.Background()
	first, err := c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)
	clk.Advance(29 * time.Second)
	second, err := c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, second.ChangePercent)
}

func TestGetOrFetchRefetchesAtTTL(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)}
	c := newIndexCache(clk)
	var calls int32
	fetch := func(context.Context) (models.IndexSnapshot, error) {
		n := atomic.AddInt32(&calls, 1)
		return quote(t, 3000+float64(n)*30), nil
	}

	ctx := context.Background()
	_, err := c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)
	clk.Advance(DefaultTTL)
	got, err := c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 2.0, got.ChangePercent)
	e, ok := c.Peek(ctx, "sh000001")
	require.True(t, ok)
	assert.Equal(t, clk.Now(), e.CachedAt)
}

func TestGetOrFetchRejectsZeroReference(t *testing.T) {
	store := NewTTLCache[models.FundSnapshot]()
	c := NewSnapshotCache[models.FundSnapshot](models.KindFund, store, DefaultTTL)
	fetch := func(context.Context) (models.FundSnapshot, error) {
		return models.FundSnapshot{Code: "000001", NetValue: "0", ChangePercent: 1.2}, nil
	}

	_, err := c.GetOrFetch(context.Background(), "000001", fetch)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	assert.Equal(t, 0, store.Len())
}

func TestGetOrFetchFailureIsNotServedStale(t *testing.T) {
	clk := &fakeClock{now: time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)}
	c := newIndexCache(clk)
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "sh000001", func(context.Context) (models.IndexSnapshot, error) {
		return quote(t, 3030), nil
	})
	require.NoError(t, err)
	clk.Advance(time.Minute)

	boom := &models.TransportError{Source: "sina", Identity: "sh000001", Err: errors.New("timeout")}
	_, err = c.GetOrFetch(ctx, "sh000001", func(context.Context) (models.IndexSnapshot, error) {
		return models.IndexSnapshot{}, boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)

	// the old entry is left in place but still reported stale
	_, err = c.GetOrFetch(ctx, "sh000001", func(context.Context) (models.IndexSnapshot, error) {
		return models.IndexSnapshot{}, boom
	})
	assert.Error(t, err)
}

func TestGetOrFetchCollapsesConcurrentMisses(t *testing.T) {
	c := NewSnapshotCache[models.IndexSnapshot](models.KindIndex, NewTTLCache[models.IndexSnapshot](), DefaultTTL)
	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (models.IndexSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return quote(t, 2970), nil
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]models.IndexSnapshot, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFetch(context.Background(), "sh000001", fetch)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, -1.0, results[i].ChangePercent)
	}
}

func TestResetForcesRefetch(t *testing.T) {
	c := NewSnapshotCache[models.IndexSnapshot](models.KindIndex, NewTTLCache[models.IndexSnapshot](), DefaultTTL)
	var calls int32
	fetch := func(context.Context) (models.IndexSnapshot, error) {
		atomic.AddInt32(&calls, 1)
		return quote(t, 3000), nil
	}
	ctx := context.Background()

	_, err := c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)
	require.NoError(t, c.Reset(ctx))
	_, ok := c.Peek(ctx, "sh000001")
	assert.False(t, ok)

	_, err = c.GetOrFetch(ctx, "sh000001", fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
