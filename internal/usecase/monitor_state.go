package usecase

import (
	"context"
	"errors"
	"sync"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/service/cache"
)

type (
	IndexCache = cache.SnapshotCache[models.IndexSnapshot]
	FundCache  = cache.SnapshotCache[models.FundSnapshot]
)

// MonitorState is the process-wide mutable state shared by every refresh
// cycle. Cycles hold cycleMu for reading; configuration updates take it for
// writing so no cycle sees a half-applied watch list.
type MonitorState struct {
	cycleMu sync.RWMutex
	cfg     models.MonitorConfig

	indices *IndexCache
	funds   *FundCache

	mu         sync.Mutex // delta, history and lastUpdate move together
	delta      *DeltaTracker
	history    *HistoryRecorder
	lastUpdate *string
}

func NewMonitorState(cfg models.MonitorConfig, indices *IndexCache, funds *FundCache) *MonitorState {
	return &MonitorState{
		cfg:     cfg.Clone(),
		indices: indices,
		funds:   funds,
		delta:   NewDeltaTracker(),
		history: NewHistoryRecorder(),
	}
}

// Config returns a copy of the current configuration.
func (s *MonitorState) Config() models.MonitorConfig {
	s.cycleMu.RLock()
	defer s.cycleMu.RUnlock()
	return s.cfg.Clone()
}

// beginCycle pins the configuration until the returned func is called.
func (s *MonitorState) beginCycle() (models.MonitorConfig, func()) {
	s.cycleMu.RLock()
	return s.cfg.Clone(), s.cycleMu.RUnlock
}

// commit records a finished cycle and returns the history to report and
// the previous cycle's time.
func (s *MonitorState) commit(ts string, d models.DeltaSet, incremental bool) (models.HistorySeries, *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delta.Replace(d)
	var h models.HistorySeries
	if incremental {
		s.history.Append(ts, d)
		h = s.history.Snapshot()
	} else {
		s.history.Reset()
		h = models.NewHistorySeries()
	}

	prev := s.lastUpdate
	cur := ts
	s.lastUpdate = &cur
	return h, prev
}

// Replace swaps in cfg after in-flight cycles finish and drops every cached
// snapshot. Both caches are reset even if one fails.
func (s *MonitorState) Replace(ctx context.Context, cfg models.MonitorConfig) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.cfg = cfg.Clone()
	return errors.Join(s.indices.Reset(ctx), s.funds.Reset(ctx))
}

// Delta is the last committed delta set.
func (s *MonitorState) Delta() models.DeltaSet { return s.delta.Current() }

// History is a copy of the session history.
func (s *MonitorState) History() models.HistorySeries { return s.history.Snapshot() }

// LastUpdate is the time of the last committed cycle, or nil.
func (s *MonitorState) LastUpdate() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastUpdate == nil {
		return nil
	}
	v := *s.lastUpdate
	return &v
}
