package analytics

import (
	"FundMonitor/internal/domain/models"
	dsvc "FundMonitor/internal/domain/service"
)

const riskWarning = "投资有风险，决策需谨慎。以上建议仅供参考，不构成投资指导。"

type adviceBand struct {
	above      float64
	summary    string
	strategies []string
}

// Bands are checked top-down with a strict greater-than; the last one is the floor.
var adviceBands = []adviceBand{
	{
		above:   1,
		summary: "当前市场整体上涨，多数标的表现良好，建议谨慎持有，避免追高。",
		strategies: []string{
			"对于涨幅较高的标的，可考虑部分止盈",
			"关注成交量变化，警惕冲高回落风险",
			"保持仓位控制，不盲目加仓",
		},
	},
	{
		above:   0,
		summary: "当前市场小幅上涨，整体走势平稳，建议继续持有观察。",
		strategies: []string{
			"持有核心标的，等待进一步趋势确认",
			"逢低可小幅加仓优质标的",
			"分散投资，降低单一标的风险",
		},
	},
	{
		above:   -1,
		summary: "当前市场震荡整理，涨跌互现，建议观望为主。",
		strategies: []string{
			"减少操作频率，避免频繁交易",
			"关注基本面变化，选择优质标的",
			"预留现金，等待市场方向明确",
		},
	},
	{
		above:   -2,
		summary: "当前市场小幅下跌，部分标的调整，建议耐心等待。",
		strategies: []string{
			"避免恐慌性卖出，关注长期价值",
			"分批加仓被错杀的优质标的",
			"控制仓位，不盲目抄底",
		},
	},
}

var steepDecline = adviceBand{
	summary: "当前市场大幅下跌，风险较高，建议严控仓位。",
	strategies: []string{
		"大幅降低仓位，保住本金安全",
		"停止加仓操作，等待市场企稳",
		"关注政策面消息，寻找企稳信号",
	},
}

// Advisor maps the average change onto fixed guidance.
type Advisor struct{}

var _ dsvc.Advisor = Advisor{}

func NewAdvisor() Advisor { return Advisor{} }

func (Advisor) Advise(avgChange float64) models.Advice {
	band := steepDecline
	for _, b := range adviceBands {
		if avgChange > b.above {
			band = b
			break
		}
	}
	return models.Advice{
		Summary:     band.summary,
		Strategies:  append([]string(nil), band.strategies...),
		RiskWarning: riskWarning,
	}
}
