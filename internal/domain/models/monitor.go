package models

import (
	"fmt"
	"strings"
)

const (
	DefaultRefreshInterval = 30
	MinRefreshInterval     = 10
	MaxRefreshInterval     = 300
)

// MonitorConfig is the set of instruments being watched and the dashboard
// refresh interval. Values are treated as immutable once published.
type MonitorConfig struct {
	Indices         []IndexTarget `json:"indices"`
	Funds           []string      `json:"funds"`
	RefreshInterval int           `json:"refresh_interval"`
}

// DefaultMonitorConfig is the out-of-the-box watch list.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Indices: []IndexTarget{
			{Name: "上证指数", Code: "sh000001"},
			{Name: "深证成指", Code: "sz399001"},
			{Name: "创业板指", Code: "sz399006"},
		},
		Funds:           []string{"000001", "025857", "161725"},
		RefreshInterval: DefaultRefreshInterval,
	}
}

// Clone returns a copy that shares no slices with c.
func (c MonitorConfig) Clone() MonitorConfig {
	return MonitorConfig{
		Indices:         append([]IndexTarget{}, c.Indices...),
		Funds:           append([]string{}, c.Funds...),
		RefreshInterval: c.RefreshInterval,
	}
}

// IndexText renders the index list as "name|code" lines.
func (c MonitorConfig) IndexText() string {
	lines := make([]string, 0, len(c.Indices))
	for _, t := range c.Indices {
		lines = append(lines, fmt.Sprintf("%s|%s", t.Name, t.Code))
	}
	return strings.Join(lines, "\n")
}

// FundText renders the fund codes space separated.
func (c MonitorConfig) FundText() string {
	return strings.Join(c.Funds, " ")
}

// ClampRefreshInterval bounds v into [MinRefreshInterval, MaxRefreshInterval].
func ClampRefreshInterval(v int) int {
	if v < MinRefreshInterval {
		return MinRefreshInterval
	}
	if v > MaxRefreshInterval {
		return MaxRefreshInterval
	}
	return v
}
