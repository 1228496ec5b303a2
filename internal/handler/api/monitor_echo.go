package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/service/metrics"
	"FundMonitor/internal/service/ratelimit"
	"FundMonitor/internal/usecase"
	xhttp "FundMonitor/pkg/http"
	xlogger "FundMonitor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Refresher runs refresh cycles and produces advice.
type Refresher interface {
	Refresh(ctx context.Context, incremental bool) (*models.RefreshPayload, error)
	Advice(ctx context.Context) (*models.Advice, error)
}

// ConfigService reads and replaces the monitor configuration.
type ConfigService interface {
	View() models.ConfigView
	Update(ctx context.Context, req models.SaveConfigRequest) (usecase.ConfigResult, error)
}

type AdviceResponse struct {
	Success bool          `json:"success"`
	Advice  models.Advice `json:"advice"`
}

type ConfigResponse struct {
	Success bool              `json:"success"`
	Config  models.ConfigView `json:"config"`
}

type SaveConfigResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Skipped []string `json:"skipped"`
}

const (
	msgConfigEmpty  = "配置数据为空"
	msgConfigSaved  = "配置保存成功！"
	msgConfigFailed = "配置保存失败："
	msgRateLimited  = "请求过于频繁，请稍后再试"

	maxConfigBody = 64 << 10
)

// MonitorEchoHandler serves the dashboard JSON API and the push stream.
type MonitorEchoHandler struct {
	logger    *xlogger.Logger
	refresher Refresher
	config    ConfigService
	metrics   *metrics.APIMetrics
	limiter   *ratelimit.Limiter
	stream    *StreamHandler
}

func NewMonitorEchoHandler(
	logger *xlogger.Logger,
	refresher Refresher,
	config ConfigService,
	m *metrics.APIMetrics,
	limiter *ratelimit.Limiter,
	stream *StreamHandler,
) *MonitorEchoHandler {
	return &MonitorEchoHandler{
		logger:    logger.With(xlogger.String("component", "api")),
		refresher: refresher,
		config:    config,
		metrics:   m,
		limiter:   limiter,
		stream:    stream,
	}
}

func (h *MonitorEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.rateLimit)
	g.GET("/get_data", h.GetData)
	g.GET("/get_invest_advice", h.GetInvestAdvice)
	g.GET("/get_config", h.GetConfig)
	g.POST("/save_config", h.SaveConfig)

	if h.stream != nil {
		e.GET("/ws/monitor", h.stream.Serve)
	}
}

func (h *MonitorEchoHandler) GetData(c echo.Context) (err error) {
	defer h.observe("get_data", time.Now(), &err)

	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	payload, err := h.refresher.Refresh(c.Request().Context(), xhttp.IsTrue(req.Incremental))
	if err != nil {
		h.logger.Error("refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("refresh failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, payload)
}

func (h *MonitorEchoHandler) GetInvestAdvice(c echo.Context) (err error) {
	defer h.observe("get_invest_advice", time.Now(), &err)

	advice, err := h.refresher.Advice(c.Request().Context())
	if err != nil {
		h.logger.Error("advice failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("advice failed").WithError(err))
	}
	return xhttp.JSONResponse(c, http.StatusOK, AdviceResponse{Success: true, Advice: *advice})
}

func (h *MonitorEchoHandler) GetConfig(c echo.Context) error {
	return xhttp.JSONResponse(c, http.StatusOK, ConfigResponse{Success: true, Config: h.config.View()})
}

func (h *MonitorEchoHandler) SaveConfig(c echo.Context) (err error) {
	defer h.observe("save_config", time.Now(), &err)

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxConfigBody))
	if err != nil {
		return xhttp.FailResponse(c, http.StatusBadRequest, msgConfigEmpty)
	}
	if emptyJSON(raw) {
		return xhttp.FailResponse(c, http.StatusBadRequest, msgConfigEmpty)
	}
	c.Request().Body = io.NopCloser(bytes.NewReader(raw))

	req := &models.SaveConfigRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.config.Update(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("save config failed", xlogger.Error(err))
		return xhttp.FailResponse(c, http.StatusInternalServerError, msgConfigFailed+err.Error())
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return xhttp.JSONResponse(c, http.StatusOK, SaveConfigResponse{Success: true, Message: msgConfigSaved, Skipped: skipped})
}

// emptyJSON reports a body with nothing to apply: absent, null or {}.
// An object with empty fields is a real update that clears the watch list.
func emptyJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}
	var m map[string]json.RawMessage
	return json.Unmarshal(raw, &m) == nil && len(m) == 0
}

func (h *MonitorEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter == nil || h.limiter.Allow(c.RealIP()) {
			return next(c)
		}
		if h.metrics != nil {
			h.metrics.RateLimited.WithLabelValues(c.Path()).Inc()
		}
		h.logger.Warn("rate limited", xlogger.String("remote", c.RealIP()), xlogger.String("path", c.Path()))
		return xhttp.FailResponse(c, http.StatusTooManyRequests, msgRateLimited)
	}
}

func (h *MonitorEchoHandler) observe(endpoint string, start time.Time, err *error) {
	if h.metrics == nil {
		return
	}
	h.metrics.Observe(endpoint, start, *err)
}
