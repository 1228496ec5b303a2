package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdviseBands(t *testing.T) {
	tests := []struct {
		name    string
		avg     float64
		summary string
	}{
		{"strong rally", 1.01, "当前市场整体上涨，多数标的表现良好，建议谨慎持有，避免追高。"},
		{"exactly 1 is mild rally", 1.0, "当前市场小幅上涨，整体走势平稳，建议继续持有观察。"},
		{"exactly 0 is choppy", 0, "当前市场震荡整理，涨跌互现，建议观望为主。"},
		{"exactly -1 is mild decline", -1.0, "当前市场小幅下跌，部分标的调整，建议耐心等待。"},
		{"exactly -2 is steep decline", -2.0, "当前市场大幅下跌，风险较高，建议严控仓位。"},
		{"deep", -5.5, "当前市场大幅下跌，风险较高，建议严控仓位。"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdvisor().Advise(tt.avg)
			assert.Equal(t, tt.summary, a.Summary)
			assert.Len(t, a.Strategies, 3)
			assert.Equal(t, riskWarning, a.RiskWarning)
		})
	}
}

func TestAdviseReturnsOwnedStrategies(t *testing.T) {
	a := NewAdvisor().Advise(0.5)
	a.Strategies[0] = "changed"
	assert.Equal(t, "持有核心标的，等待进一步趋势确认", NewAdvisor().Advise(0.5).Strategies[0])
}
