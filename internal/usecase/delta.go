package usecase

import (
	"sync"

	"FundMonitor/internal/domain/models"
)

// DeltaTracker holds the most recent cycle's change per instrument.
// Each cycle swaps in a whole new set; nothing carries over.
type DeltaTracker struct {
	mu  sync.RWMutex
	cur models.DeltaSet
}

func NewDeltaTracker() *DeltaTracker {
	return &DeltaTracker{cur: models.NewDeltaSet()}
}

// Replace installs d as the current set.
func (t *DeltaTracker) Replace(d models.DeltaSet) {
	t.mu.Lock()
	t.cur = d
	t.mu.Unlock()
}

// Current returns a copy of the current set.
func (t *DeltaTracker) Current() models.DeltaSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := models.NewDeltaSet()
	for k, v := range t.cur.Indices {
		out.Indices[k] = v
	}
	for k, v := range t.cur.Funds {
		out.Funds[k] = v
	}
	return out
}
