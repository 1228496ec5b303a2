package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"FundMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexLines(t *testing.T) {
	text := "上证指数|sh000001\n\n  深证成指 | sz399001  \nbroken line\n|sz399006\n上证指数|sh000002\n"
	got, skipped := ParseIndexLines(text)

	assert.Equal(t, []models.IndexTarget{
		{Name: "上证指数", Code: "sh000002"},
		{Name: "深证成指", Code: "sz399001"},
	}, got)
	assert.Equal(t, []string{"broken line", "|sz399006"}, skipped)
}

func TestParseIndexLinesEmpty(t *testing.T) {
	got, skipped := ParseIndexLines("")
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Empty(t, skipped)
}

func TestParseFunds(t *testing.T) {
	assert.Equal(t, []string{"000001", "025857", "161725"}, ParseFunds(" 000001  025857\n161725 000001 "))
	assert.Empty(t, ParseFunds("   "))
}

func TestCoerceInterval(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
	}{
		{nil, 30},
		{"abc", 30},
		{float64(5), 10},
		{float64(45), 45},
		{"600", 300},
		{json.Number("60"), 60},
		{1e300, 300},
		{-1e300, 10},
		{"99999999999999999999", 300},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceInterval(tt.in), "input %v", tt.in)
	}
}

func TestUpdateSwapsConfigAndResetsCaches(t *testing.T) {
	f := newFixture(cache30s)
	ctx := context.Background()
	_, err := f.r.Refresh(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, f.indices.callCount("sh000001"))

	u := NewConfigUseCase(f.state, nil)
	res, err := u.Update(ctx, models.SaveConfigRequest{
		Indices:         "上证指数|sh000001\nbad",
		Funds:           "161725",
		RefreshInterval: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, res.Skipped)
	assert.Equal(t, 10, res.Config.RefreshInterval)

	view := u.View()
	assert.Equal(t, "上证指数|sh000001", view.Indices)
	assert.Equal(t, "161725", view.Funds)
	assert.Equal(t, 10, view.RefreshInterval)

	p, err := f.r.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Len(t, p.Indices, 1)
	assert.Len(t, p.Funds, 1)
	assert.Equal(t, 10, p.RefreshInterval)
	// caches were dropped, so the unchanged instrument is fetched again
	assert.Equal(t, 2, f.indices.callCount("sh000001"))
}

func TestViewDefaultConfig(t *testing.T) {
	f := newFixture(cache30s)
	require.NoError(t, f.state.Replace(context.Background(), models.DefaultMonitorConfig()))
	v := NewConfigUseCase(f.state, nil).View()
	assert.Equal(t, "上证指数|sh000001\n深证成指|sz399001\n创业板指|sz399006", v.Indices)
	assert.Equal(t, "000001 025857 161725", v.Funds)
	assert.Equal(t, 30, v.RefreshInterval)
}
