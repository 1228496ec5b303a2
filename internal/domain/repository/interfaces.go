package repository

import (
	"context"

	"FundMonitor/internal/domain/models"
)

// IndexSource fetches a normalized index quote.
type IndexSource interface {
	FetchIndex(ctx context.Context, target models.IndexTarget) (models.IndexSnapshot, error)
}

// FundSource fetches a normalized fund valuation estimate.
type FundSource interface {
	FetchFund(ctx context.Context, code string) (models.FundSnapshot, error)
}

// CyclePublisher ships cycle summaries downstream.
type CyclePublisher interface {
	Publish(ctx context.Context, ev *models.CycleEvent) error
	Close() error
}

// Metrics records operational counters for the monitor.
type Metrics interface {
	RecordFetch(kind models.AssetKind, outcome string)
	RecordCache(kind models.AssetKind, hit bool)
	RecordChange(kind models.AssetKind, identity string, pct float64)
	RecordCycle(mode string, seconds float64)
	RecordError(kind string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(models.AssetKind, string)           {}
func (NopMetrics) RecordCache(models.AssetKind, bool)             {}
func (NopMetrics) RecordChange(models.AssetKind, string, float64) {}
func (NopMetrics) RecordCycle(string, float64)                    {}
func (NopMetrics) RecordError(string)                             {}
