package analytics

import (
	"FundMonitor/internal/domain/models"
	dsvc "FundMonitor/internal/domain/service"
)

// Risk thresholds on the rising/falling share of all instruments.
const (
	rallyRatio    = 0.8
	majorityRatio = 0.5
)

// Sentiment is the default SentimentEngine.
type Sentiment struct{}

var _ dsvc.SentimentEngine = Sentiment{}

func NewSentiment() Sentiment { return Sentiment{} }

// Summarize classifies every snapshot by the sign of its change, tracks the
// extremes (first seen wins a tie, indices before funds) and scores risk.
func (Sentiment) Summarize(indices, funds []models.Snapshot) models.MetricsSummary {
	var (
		m        models.MetricsSummary
		sum      float64
		n        int
		maxRise  float64
		maxFall  float64
		hasRise  bool
		hasFall  bool
		riseName string
		fallName string
	)

	for _, group := range [][]models.Snapshot{indices, funds} {
		for _, s := range group {
			c := s.Change()
			m.Classify(s.Kind(), c)
			sum += c
			n++

			if c > 0 && (!hasRise || c > maxRise) {
				maxRise, riseName, hasRise = c, s.DisplayName(), true
			}
			if c < 0 && (!hasFall || c < maxFall) {
				maxFall, fallName, hasFall = c, s.DisplayName(), true
			}
		}
	}

	if hasRise {
		m.MaxRise = models.Extremum{Name: riseName, Value: &maxRise}
	}
	if hasFall {
		m.MaxFall = models.Extremum{Name: fallName, Value: &maxFall}
	}
	if n > 0 {
		m.AvgChange = sum / float64(n)
	}
	m.RiskLevel = RiskLevel(m.Rising.Total, m.Falling.Total, m.Total())
	m.RiskLabel = m.RiskLevel.Label()
	return m
}

// RiskLevel applies the rules in order; the first match wins. The
// fall < 0.5 check precedes fall > 0.5, so an exact half is a selloff.
func RiskLevel(rising, falling, total int) models.RiskLevel {
	if total == 0 {
		return models.RiskNoData
	}
	rise := float64(rising) / float64(total)
	fall := float64(falling) / float64(total)
	switch {
	case rise > rallyRatio:
		return models.RiskHighRally
	case rise > majorityRatio:
		return models.RiskModerateMildRise
	case fall < majorityRatio:
		return models.RiskLowChoppy
	case fall > majorityRatio:
		return models.RiskModerateMildDecline
	default:
		return models.RiskHighSelloff
	}
}
