package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	reg := prometheus.NewRegistry()
	p := NewProducerWithWriter(w, "snappy", reg)

	require.NoError(t, p.Publish(context.Background(), "fundmonitor.cycles", []byte("k"), map[string]int{"fetched": 3}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "fundmonitor.cycles", w.msgs[0].Topic)
	assert.JSONEq(t, `{"fetched":3}`, string(w.msgs[0].Value))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.msgs.WithLabelValues("fundmonitor.cycles", "snappy", "ok")))
}

func TestPublishErrorCounted(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "gzip", prometheus.NewRegistry())

	for _, v := range []interface{}{"a", []byte("b")} {
		require.Error(t, p.Publish(context.Background(), "t", nil, v))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(p.metrics.errs.WithLabelValues("t")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.metrics.msgs.WithLabelValues("t", "gzip", "error")))
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
