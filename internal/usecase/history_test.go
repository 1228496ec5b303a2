package usecase

import (
	"testing"

	"FundMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRecorderAppendAndReset(t *testing.T) {
	r := NewHistoryRecorder()
	d := models.NewDeltaSet()
	d.Indices["sh000001"] = 1.5
	d.Funds["000001"] = -0.2
	r.Append("10:00:00", d)

	d2 := models.NewDeltaSet()
	d2.Indices["sh000001"] = 1.7
	r.Append("10:00:30", d2)

	h := r.Snapshot()
	assert.Equal(t, []string{"10:00:00", "10:00:30"}, h.Time)
	assert.Equal(t, []float64{1.5, 1.7}, h.IndexData["sh000001"])
	assert.Equal(t, []float64{-0.2}, h.FundData["000001"])

	r.Reset()
	assert.Empty(t, r.Snapshot().Time)
	assert.Empty(t, r.Snapshot().FundData)
}

func TestDeltaTrackerReplaces(t *testing.T) {
	tr := NewDeltaTracker()
	d := models.NewDeltaSet()
	d.Funds["000001"] = 0.3
	tr.Replace(d)
	tr.Replace(models.NewDeltaSet())
	assert.Equal(t, 0, tr.Current().Len())
}
