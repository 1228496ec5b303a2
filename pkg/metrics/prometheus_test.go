package metrics

import (
	"testing"

	"FundMonitor/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordFetch(models.KindFund, "ok")
	r.RecordFetch(models.KindFund, "ok")
	r.RecordCache(models.KindIndex, true)
	r.RecordCache(models.KindIndex, false)
	r.RecordChange(models.KindIndex, "sh000001", -1.25)
	r.RecordError("transport")
	r.RecordCycle("full", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues("fund", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookup.WithLabelValues("index", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookup.WithLabelValues("index", "miss")))
	assert.Equal(t, -1.25, testutil.ToFloat64(r.lastChange.WithLabelValues("index", "sh000001")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("transport")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.cycles))

	// a second registry accepts a fresh recorder
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
