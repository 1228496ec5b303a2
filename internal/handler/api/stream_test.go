package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FundMonitor/internal/domain/models"
	xhttp "FundMonitor/pkg/http"
	xlogger "FundMonitor/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedInterval int

func (f fixedInterval) Config() models.MonitorConfig {
	return models.MonitorConfig{RefreshInterval: int(f)}
}

func TestStreamPushesFullThenIncremental(t *testing.T) {
	ref := &fakeRefresher{}
	stream := NewStreamHandler(ref, fixedInterval(10), xlogger.Nop(), nil)
	stream.unit = time.Millisecond
	h := NewMonitorEchoHandler(xlogger.Nop(), ref, &fakeConfig{}, nil, nil, stream)
	srv := httptest.NewServer(xhttp.NewServer(h).Echo())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/monitor"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i, want := range []bool{false, true, true} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg struct {
			Success bool                  `json:"success"`
			Data    models.RefreshPayload `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg), "message %d", i)
		assert.True(t, msg.Success)
		assert.Equal(t, want, msg.Data.Incremental, "message %d", i)
	}
}
