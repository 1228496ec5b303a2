package service

import "FundMonitor/internal/domain/models"

// SentimentEngine classifies a cycle's snapshots and scores market risk.
type SentimentEngine interface {
	Summarize(indices, funds []models.Snapshot) models.MetricsSummary
}

// Advisor turns the average change into investment guidance.
type Advisor interface {
	Advise(avgChange float64) models.Advice
}
