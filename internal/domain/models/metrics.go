package models

// RiskLevel is the sentiment label derived from the rising/falling proportions.
type RiskLevel string

const (
	RiskNoData              RiskLevel = "no-data"
	RiskHighRally           RiskLevel = "high-risk-rally"
	RiskModerateMildRise    RiskLevel = "moderate-risk-mild-rise"
	RiskLowChoppy           RiskLevel = "low-risk-choppy"
	RiskModerateMildDecline RiskLevel = "moderate-risk-mild-decline"
	RiskHighSelloff         RiskLevel = "high-risk-selloff"
)

var riskLabels = map[RiskLevel]string{
	RiskNoData:              "无数据（暂无监控标的）",
	RiskHighRally:           "高风险（大涨）",
	RiskModerateMildRise:    "中风险（小涨）",
	RiskLowChoppy:           "低风险（震荡）",
	RiskModerateMildDecline: "中风险（小跌）",
	RiskHighSelloff:         "高风险（大跌）",
}

// Label is the dashboard text for the level.
func (r RiskLevel) Label() string {
	return riskLabels[r]
}

// Counts holds per-kind tallies for one classification.
type Counts struct {
	Indices int `json:"indices"`
	Funds   int `json:"funds"`
	Total   int `json:"total"`
}

func (c *Counts) add(kind AssetKind) {
	switch kind {
	case KindIndex:
		c.Indices++
	case KindFund:
		c.Funds++
	}
	c.Total++
}

// Extremum is the instrument with the largest move in one direction.
// A nil Value means no instrument qualified.
type Extremum struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

// Present reports whether an instrument qualified.
func (e Extremum) Present() bool { return e.Value != nil }

// MetricsSummary is computed per cycle and never persisted.
type MetricsSummary struct {
	Rising    Counts    `json:"rising"`
	Falling   Counts    `json:"falling"`
	Flat      Counts    `json:"flat"`
	MaxRise   Extremum  `json:"max_rise"`
	MaxFall   Extremum  `json:"max_fall"`
	RiskLevel RiskLevel `json:"risk_level"`
	RiskLabel string    `json:"risk_label"`
	AvgChange float64   `json:"avg_change"`
}

// Classify increments the bucket matching the sign of change.
func (m *MetricsSummary) Classify(kind AssetKind, change float64) {
	switch {
	case change > 0:
		m.Rising.add(kind)
	case change < 0:
		m.Falling.add(kind)
	default:
		m.Flat.add(kind)
	}
}

// Total is the number of classified instruments.
func (m MetricsSummary) Total() int {
	return m.Rising.Total + m.Falling.Total + m.Flat.Total
}

// Advice is investment guidance keyed off the average change.
type Advice struct {
	Summary     string   `json:"summary"`
	Strategies  []string `json:"strategies"`
	RiskWarning string   `json:"risk_warning"`
}
