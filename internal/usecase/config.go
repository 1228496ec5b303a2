package usecase

import (
	"context"
	"fmt"
	"strings"

	"FundMonitor/internal/domain/models"
	"FundMonitor/pkg/logger"
	"FundMonitor/pkg/util"
)

// ConfigResult reports an applied configuration and the index lines that
// were skipped as malformed.
type ConfigResult struct {
	Config  models.MonitorConfig
	Skipped []string
}

// ConfigUseCase reads and replaces the watch list.
type ConfigUseCase struct {
	state *MonitorState
	log   *logger.Logger
}

func NewConfigUseCase(state *MonitorState, log *logger.Logger) *ConfigUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfigUseCase{state: state, log: log.With(logger.String("component", "config"))}
}

// View renders the current configuration in its text form.
func (u *ConfigUseCase) View() models.ConfigView {
	cfg := u.state.Config()
	return models.ConfigView{
		Indices:         cfg.IndexText(),
		Funds:           cfg.FundText(),
		RefreshInterval: cfg.RefreshInterval,
	}
}

// Update parses the text form, swaps the configuration in and drops every
// cached snapshot. Bad input is repaired or skipped, never rejected.
func (u *ConfigUseCase) Update(ctx context.Context, req models.SaveConfigRequest) (ConfigResult, error) {
	indices, skipped := ParseIndexLines(req.Indices)
	cfg := models.MonitorConfig{
		Indices:         indices,
		Funds:           ParseFunds(req.Funds),
		RefreshInterval: CoerceInterval(req.RefreshInterval),
	}

	for _, line := range skipped {
		u.log.Warn("skipping index line", logger.Error(&models.ValidationError{Field: "indices", Message: fmt.Sprintf("malformed line %q", line)}))
	}

	if err := u.state.Replace(ctx, cfg); err != nil {
		return ConfigResult{Config: cfg, Skipped: skipped}, fmt.Errorf("reset caches: %w", err)
	}
	u.log.Info("configuration updated",
		logger.Int("indices", len(cfg.Indices)),
		logger.Int("funds", len(cfg.Funds)),
		logger.Int("refresh_interval", cfg.RefreshInterval),
		logger.Strings("skipped", skipped))
	return ConfigResult{Config: cfg, Skipped: skipped}, nil
}

// ParseIndexLines reads "name|code" lines. Blank lines are ignored; lines
// without a separator or with an empty side are returned as skipped. A
// repeated name keeps its first position and takes the later code.
func ParseIndexLines(text string) ([]models.IndexTarget, []string) {
	var (
		out     []models.IndexTarget
		skipped []string
		pos     = map[string]int{}
	)
	for _, line := range util.SplitNonEmpty(text, "\n") {
		name, code, ok := strings.Cut(line, "|")
		name, code = strings.TrimSpace(name), strings.TrimSpace(code)
		if !ok || name == "" || code == "" {
			skipped = append(skipped, line)
			continue
		}
		if i, seen := pos[name]; seen {
			out[i].Code = code
			continue
		}
		pos[name] = len(out)
		out = append(out, models.IndexTarget{Name: name, Code: code})
	}
	if out == nil {
		out = []models.IndexTarget{}
	}
	return out, skipped
}

// ParseFunds splits on whitespace and drops repeated codes.
func ParseFunds(text string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, code := range strings.Fields(text) {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// CoerceInterval turns the form value into seconds: unparseable input gives
// the default, anything else is clamped into range.
func CoerceInterval(v interface{}) int {
	return models.ClampRefreshInterval(util.CoerceInt(v, models.DefaultRefreshInterval))
}
