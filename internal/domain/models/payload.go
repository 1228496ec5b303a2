package models

import "time"

// DeltaSet holds this cycle's change per successfully fetched instrument.
// An absent key means "no data this cycle", not zero change.
type DeltaSet struct {
	Indices map[string]float64 `json:"indices"`
	Funds   map[string]float64 `json:"funds"`
}

// NewDeltaSet returns an empty set.
func NewDeltaSet() DeltaSet {
	return DeltaSet{Indices: map[string]float64{}, Funds: map[string]float64{}}
}

// Set records one instrument's change.
func (d DeltaSet) Set(s Snapshot) {
	switch s.Kind() {
	case KindIndex:
		d.Indices[s.Identity()] = s.Change()
	case KindFund:
		d.Funds[s.Identity()] = s.Change()
	}
}

// Len is the number of instruments in the set.
func (d DeltaSet) Len() int { return len(d.Indices) + len(d.Funds) }

// HistorySeries is the in-session running chart data. Series for an
// instrument that missed a cycle are shorter than Time.
type HistorySeries struct {
	Time      []string             `json:"time"`
	IndexData map[string][]float64 `json:"index_data"`
	FundData  map[string][]float64 `json:"fund_data"`
}

// NewHistorySeries returns an empty series.
func NewHistorySeries() HistorySeries {
	return HistorySeries{
		Time:      []string{},
		IndexData: map[string][]float64{},
		FundData:  map[string][]float64{},
	}
}

// Clone deep-copies the series.
func (h HistorySeries) Clone() HistorySeries {
	out := HistorySeries{
		Time:      append([]string{}, h.Time...),
		IndexData: make(map[string][]float64, len(h.IndexData)),
		FundData:  make(map[string][]float64, len(h.FundData)),
	}
	for k, v := range h.IndexData {
		out.IndexData[k] = append([]float64{}, v...)
	}
	for k, v := range h.FundData {
		out.FundData[k] = append([]float64{}, v...)
	}
	return out
}

// RefreshPayload is the result of one refresh cycle.
type RefreshPayload struct {
	CycleID         string          `json:"cycle_id"`
	Time            string          `json:"time"`
	Incremental     bool            `json:"incremental"`
	Indices         []IndexSnapshot `json:"indices"`
	Funds           []FundSnapshot  `json:"funds"`
	Errors          []string        `json:"errors"`
	Metrics         MetricsSummary  `json:"metrics"`
	History         HistorySeries   `json:"history"`
	Delta           DeltaSet        `json:"incremental_data"`
	RefreshInterval int             `json:"refresh_interval"`
	LastUpdateTime  *string         `json:"last_update_time"`
}

// CycleEvent is the summary of a cycle published to downstream consumers.
type CycleEvent struct {
	CycleID     string         `json:"cycle_id"`
	At          time.Time      `json:"at"`
	Incremental bool           `json:"incremental"`
	Fetched     int            `json:"fetched"`
	Failed      int            `json:"failed"`
	Metrics     MetricsSummary `json:"metrics"`
	Delta       DeltaSet       `json:"delta"`
}
