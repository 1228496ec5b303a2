package api

import (
	"context"
	"net/http"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/service/metrics"
	xhttp "FundMonitor/pkg/http"
	xlogger "FundMonitor/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const writeWait = 10 * time.Second

// IntervalSource reports the current refresh interval in seconds.
type IntervalSource interface {
	Config() models.MonitorConfig
}

// StreamHandler pushes refresh payloads over a websocket: a full refresh on
// connect, then an incremental one every refresh interval. The interval is
// re-read before each tick so configuration changes apply immediately.
type StreamHandler struct {
	refresher Refresher
	interval  IntervalSource
	logger    *xlogger.Logger
	metrics   *metrics.APIMetrics
	upgrader  websocket.Upgrader
	unit      time.Duration
}

func NewStreamHandler(refresher Refresher, interval IntervalSource, logger *xlogger.Logger, m *metrics.APIMetrics) *StreamHandler {
	return &StreamHandler{
		refresher: refresher,
		interval:  interval,
		logger:    logger.With(xlogger.String("component", "stream")),
		metrics:   m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		unit: time.Second,
	}
}

func (s *StreamHandler) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(512)
	if s.metrics != nil {
		s.metrics.StreamConns.Inc()
		defer s.metrics.StreamConns.Dec()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the dashboard never sends; reading only notices the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	incremental := false
	for {
		if err := s.push(ctx, conn, incremental); err != nil {
			s.logger.Debug("stream closed", xlogger.String("remote", c.RealIP()), xlogger.Error(err))
			return nil
		}
		incremental = true

		timer := time.NewTimer(time.Duration(s.interval.Config().RefreshInterval) * s.unit)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (s *StreamHandler) push(ctx context.Context, conn *websocket.Conn, incremental bool) error {
	payload, err := s.refresher.Refresh(ctx, incremental)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(xhttp.APIResponse{Success: true, Data: payload})
}
