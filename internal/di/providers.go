package di

import (
	"context"
	"fmt"
	"time"

	"FundMonitor/internal/domain/models"
	"FundMonitor/internal/domain/repository"
	dsvc "FundMonitor/internal/domain/service"
	"FundMonitor/internal/handler/api"
	mid "FundMonitor/internal/middleware"
	internalrepo "FundMonitor/internal/repository"
	"FundMonitor/internal/service/cache"
	"FundMonitor/internal/service/eastmoney"
	apimetrics "FundMonitor/internal/service/metrics"
	"FundMonitor/internal/service/ratelimit"
	"FundMonitor/internal/service/sina"
	"FundMonitor/internal/services/analytics"
	"FundMonitor/internal/usecase"
	"FundMonitor/pkg/config"
	xhttp "FundMonitor/pkg/http"
	pkgkafka "FundMonitor/pkg/kafka"
	"FundMonitor/pkg/logger"
	"FundMonitor/pkg/metrics"
	"FundMonitor/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("service", "fundmonitor")), nil
}

// ProvideRegistry creates the Prometheus registry every component registers on.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideRedisClient connects to redis when it backs the caches. The client is
// nil for the memory backend.
func ProvideRedisClient(cfg *config.Config, log *logger.Logger) (redis.UniversalClient, func(), error) {
	if cfg.Cache.Backend != "redis" {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cli, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("redis cache connected", logger.String("addr", cfg.Cache.Redis.Addr))
	cleanup := func() {
		if err := cli.Close(); err != nil {
			log.Warn("redis close error", logger.Error(err))
		}
	}
	return cli, cleanup, nil
}

func newSnapshotCache[T models.Snapshot](
	kind models.AssetKind,
	cfg *config.Config,
	cli redis.UniversalClient,
	m repository.Metrics,
	log *logger.Logger,
) *cache.SnapshotCache[T] {
	var store cache.EntryStore[T] = cache.NewTTLCache[T]()
	if cli != nil {
		store = cache.NewRedisStore[T](cli, cfg.Cache.Redis.Prefix, kind)
	}
	return cache.NewSnapshotCache[T](kind, store, cfg.Monitor.CacheTTL,
		cache.WithMetrics[T](m),
		cache.WithLogger[T](log),
	)
}

// ProvideIndexCache creates the index quote cache on the configured backend.
func ProvideIndexCache(cfg *config.Config, cli redis.UniversalClient, m repository.Metrics, log *logger.Logger) *usecase.IndexCache {
	return newSnapshotCache[models.IndexSnapshot](models.KindIndex, cfg, cli, m, log)
}

// ProvideFundCache creates the fund estimate cache on the configured backend.
func ProvideFundCache(cfg *config.Config, cli redis.UniversalClient, m repository.Metrics, log *logger.Logger) *usecase.FundCache {
	return newSnapshotCache[models.FundSnapshot](models.KindFund, cfg, cli, m, log)
}

func ProvideIndexSource(cfg *config.Config) repository.IndexSource {
	return sina.New(cfg.Upstream.IndexURL, cfg.Upstream.UserAgent, cfg.Upstream.IndexTimeout)
}

func ProvideFundSource(cfg *config.Config) repository.FundSource {
	return eastmoney.New(cfg.Upstream.FundURL, cfg.Upstream.UserAgent, cfg.Upstream.FundTimeout)
}

func ProvideSentimentEngine() dsvc.SentimentEngine { return analytics.NewSentiment() }

func ProvideAdvisor() dsvc.Advisor { return analytics.NewAdvisor() }

// ProvideMonitorState seeds the shared state with the configured watch list.
func ProvideMonitorState(cfg *config.Config, indices *usecase.IndexCache, funds *usecase.FundCache) *usecase.MonitorState {
	return usecase.NewMonitorState(cfg.MonitorConfig(), indices, funds)
}

// ProvideCyclePublisher ships cycle events to Kafka, or discards them when
// Kafka is disabled.
func ProvideCyclePublisher(cfg *config.Config, reg *prometheus.Registry) (repository.CyclePublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopCyclePublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaCyclePublisher(producer, cfg.Kafka.Topic), nil
}

func ProvideEventPipeline(cfg *config.Config, pub repository.CyclePublisher, m repository.Metrics, log *logger.Logger) *mid.EventPipeline {
	return mid.NewEventPipeline(pub, m, log, mid.WithBufferSize(cfg.Kafka.BufferSize))
}

func ProvideRefresher(
	state *usecase.MonitorState,
	indexes repository.IndexSource,
	funds repository.FundSource,
	engine dsvc.SentimentEngine,
	advisor dsvc.Advisor,
	m repository.Metrics,
	log *logger.Logger,
	pipe *mid.EventPipeline,
) *usecase.Refresher {
	return usecase.NewRefresher(state, indexes, funds, engine, advisor, m, log, usecase.WithEventSink(pipe))
}

func ProvideConfigUseCase(state *usecase.MonitorState, log *logger.Logger) *usecase.ConfigUseCase {
	return usecase.NewConfigUseCase(state, log)
}

func ProvideAPIMetrics(reg *prometheus.Registry) *apimetrics.APIMetrics {
	return apimetrics.NewAPIMetrics(reg)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

func ProvideStreamHandler(refresher *usecase.Refresher, state *usecase.MonitorState, log *logger.Logger, m *apimetrics.APIMetrics) *api.StreamHandler {
	return api.NewStreamHandler(refresher, state, log, m)
}

func ProvideMonitorHandler(
	log *logger.Logger,
	refresher *usecase.Refresher,
	cfgUC *usecase.ConfigUseCase,
	m *apimetrics.APIMetrics,
	limiter *ratelimit.Limiter,
	stream *api.StreamHandler,
) *api.MonitorEchoHandler {
	return api.NewMonitorEchoHandler(log, refresher, cfgUC, m, limiter, stream)
}

// ProvideHTTPServer builds the echo server with the monitor routes.
func ProvideHTTPServer(cfg *config.Config, h *api.MonitorEchoHandler, reg *prometheus.Registry, log *logger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithLogger(log),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	srv *xhttp.Server,
	pipe *mid.EventPipeline,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(cfg, log, srv, pipe, limiter)
}
