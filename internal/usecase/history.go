package usecase

import (
	"sync"

	"FundMonitor/internal/domain/models"
)

// HistoryRecorder is the in-session chart series. An instrument that missed
// a cycle has a shorter series than the time axis.
type HistoryRecorder struct {
	mu sync.Mutex
	h  models.HistorySeries
}

func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{h: models.NewHistorySeries()}
}

// Reset clears every series.
func (r *HistoryRecorder) Reset() {
	r.mu.Lock()
	r.h = models.NewHistorySeries()
	r.mu.Unlock()
}

// Append adds ts to the time axis once, then each instrument in d to its own series.
func (r *HistoryRecorder) Append(ts string, d models.DeltaSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h.Time = append(r.h.Time, ts)
	for k, v := range d.Indices {
		r.h.IndexData[k] = append(r.h.IndexData[k], v)
	}
	for k, v := range d.Funds {
		r.h.FundData[k] = append(r.h.FundData[k], v)
	}
}

// Snapshot returns a deep copy.
func (r *HistoryRecorder) Snapshot() models.HistorySeries {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.h.Clone()
}
