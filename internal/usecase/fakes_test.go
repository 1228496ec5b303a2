package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/service/cache"
	"FundMonitor/internal/services/analytics"
	"FundMonitor/pkg/logger"
)

type fakeIndexSource struct {
	mu     sync.Mutex
	prices map[string]float64 // previous close is always 100
	fail   map[string]bool
	delay  map[string]time.Duration
	calls  map[string]int
}

func newFakeIndexSource(prices map[string]float64) *fakeIndexSource {
	return &fakeIndexSource{prices: prices, fail: map[string]bool{}, delay: map[string]time.Duration{}, calls: map[string]int{}}
}

func (f *fakeIndexSource) FetchIndex(ctx context.Context, t models.IndexTarget) (models.IndexSnapshot, error) {
	f.mu.Lock()
	f.calls[t.Code]++
	fail, price, delay := f.fail[t.Code], f.prices[t.Code], f.delay[t.Code]
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return models.IndexSnapshot{}, &models.TransportError{Source: "fake", Identity: t.Code, Err: errors.New("timeout")}
	}
	return models.NewIndexSnapshot(t.Code, t.Name, price, 100, time.Now())
}

func (f *fakeIndexSource) setFail(code string, fail bool) {
	f.mu.Lock()
	f.fail[code] = fail
	f.mu.Unlock()
}

func (f *fakeIndexSource) callCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[code]
}

type fakeFundSource struct {
	mu      sync.Mutex
	changes map[string]float64
	fail    map[string]bool
	calls   map[string]int
}

func newFakeFundSource(changes map[string]float64) *fakeFundSource {
	return &fakeFundSource{changes: changes, fail: map[string]bool{}, calls: map[string]int{}}
}

func (f *fakeFundSource) FetchFund(ctx context.Context, code string) (models.FundSnapshot, error) {
	f.mu.Lock()
	f.calls[code]++
	fail, change := f.fail[code], f.changes[code]
	f.mu.Unlock()
	if fail {
		return models.FundSnapshot{}, &models.ParseError{Source: "fake", Identity: code, Reason: "short payload"}
	}
	pct := fmt.Sprintf("%.2f", change)
	return models.NewFundSnapshot(code, "基金"+code, "1.0000", "1.0100", pct, "2024-10-10 15:00", 1.0, change, time.Now())
}

func (f *fakeFundSource) setFail(code string, fail bool) {
	f.mu.Lock()
	f.fail[code] = fail
	f.mu.Unlock()
}

func (f *fakeFundSource) callCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[code]
}

type recordingSink struct {
	mu     sync.Mutex
	events []*models.CycleEvent
}

func (s *recordingSink) Submit(ev *models.CycleEvent) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

type fixture struct {
	state   *MonitorState
	indices *fakeIndexSource
	funds   *fakeFundSource
	sink    *recordingSink
	r       *Refresher
	clock   time.Time

	mu     sync.Mutex
	cycles int
}

func testConfig() models.MonitorConfig {
	return models.MonitorConfig{
		Indices: []models.IndexTarget{
			{Name: "上证指数", Code: "sh000001"},
			{Name: "创业板指", Code: "sz399006"},
		},
		Funds:           []string{"000001", "161725"},
		RefreshInterval: 30,
	}
}

// newFixture wires a Refresher over fakes; ttl 0 means every call refetches.
const cache30s = 30 * time.Second

func newFixture(ttl time.Duration) *fixture {
	f := &fixture{
		indices: newFakeIndexSource(map[string]float64{"sh000001": 102, "sz399006": 99}),
		funds:   newFakeFundSource(map[string]float64{"000001": 0.5, "161725": -0.25}),
		sink:    &recordingSink{},
		clock:   time.Date(2024, 10, 10, 10, 0, 0, 0, time.Local),
	}
	cacheNow := time.Now
	if ttl == 0 {
		// each clock read is an hour after the previous one
		var tick int64
		ttl = cache.DefaultTTL
		cacheNow = func() time.Time {
			return f.clock.Add(time.Duration(atomic.AddInt64(&tick, 1)) * time.Hour)
		}
	}
	ic := cache.NewSnapshotCache[models.IndexSnapshot](models.KindIndex, cache.NewTTLCache[models.IndexSnapshot](), ttl,
		cache.WithClock[models.IndexSnapshot](cacheNow))
	fc := cache.NewSnapshotCache[models.FundSnapshot](models.KindFund, cache.NewTTLCache[models.FundSnapshot](), ttl,
		cache.WithClock[models.FundSnapshot](cacheNow))
	f.state = NewMonitorState(testConfig(), ic, fc)
	f.r = NewRefresher(f.state, f.indices, f.funds, analytics.NewSentiment(), analytics.NewAdvisor(), nil, logger.Nop(),
		WithEventSink(f.sink),
		WithNow(func() time.Time {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.cycles++
			return f.clock.Add(time.Duration(f.cycles) * 30 * time.Second)
		}))
	return f
}
