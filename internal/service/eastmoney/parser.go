package eastmoney

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"FundMonitor/internal/domain/models"
)

// jsonpgz({...}); the greedy match spans the whole object.
var objectPattern = regexp.MustCompile(`\{.*\}`)

type estimate struct {
	Code    string  `json:"fundcode"`
	Name    *string `json:"name"`
	NetDate string  `json:"jzrq"`
	Net     *string `json:"dwjz"`
	Est     *string `json:"gsz"`
	EstPct  *string `json:"gszzl"`
	EstTime string  `json:"gztime"`
}

// ParseEstimate extracts the embedded JSON object from a fundgz response.
func ParseEstimate(raw []byte, code string, now time.Time) (models.FundSnapshot, error) {
	m := objectPattern.Find([]byte(strings.TrimSpace(string(raw))))
	if m == nil {
		return models.FundSnapshot{}, parseErr(code, "no JSON object", nil)
	}

	var e estimate
	if err := json.Unmarshal(m, &e); err != nil {
		return models.FundSnapshot{}, parseErr(code, "decode estimate", err)
	}
	if e.Net == nil || e.EstPct == nil {
		return models.FundSnapshot{}, parseErr(code, "missing dwjz or gszzl", nil)
	}

	change, err := strconv.ParseFloat(strings.TrimSpace(*e.EstPct), 64)
	if err != nil {
		return models.FundSnapshot{}, parseErr(code, "gszzl", err)
	}
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return models.FundSnapshot{}, parseErr(code, "gszzl not finite", nil)
	}
	netValue, err := strconv.ParseFloat(strings.TrimSpace(*e.Net), 64)
	if err != nil {
		return models.FundSnapshot{}, parseErr(code, "dwjz", err)
	}

	name := code
	if e.Name != nil {
		name = *e.Name
	}
	estValue := "0.0000"
	if e.Est != nil {
		estValue = *e.Est
	}

	s, err := models.NewFundSnapshot(code, name, *e.Net, estValue, *e.EstPct, e.EstTime, netValue, change, now)
	if err != nil {
		return models.FundSnapshot{}, parseErr(code, "invalid estimate", err)
	}
	return s, nil
}

func parseErr(code, reason string, err error) error {
	return &models.ParseError{Source: Source, Identity: code, Reason: reason, Err: err}
}
