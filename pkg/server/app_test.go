package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/middleware"
	"FundMonitor/internal/service/ratelimit"
	"FundMonitor/pkg/config"
	xhttp "FundMonitor/pkg/http"
	applogger "FundMonitor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeCounter struct{ closed atomic.Int32 }

func (c *closeCounter) Publish(context.Context, *models.CycleEvent) error { return nil }
func (c *closeCounter) Close() error                                      { c.closed.Add(1); return nil }

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = time.Second

	pub := &closeCounter{}
	pipe := middleware.NewEventPipeline(pub, nil, applogger.Nop())
	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0))
	app := New(cfg, applogger.Nop(), srv, pipe, ratelimit.New(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(1), pub.closed.Load())
}
