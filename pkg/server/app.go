package server

import (
	"context"
	"errors"
	"time"

	"FundMonitor/internal/middleware"
	"FundMonitor/internal/service/ratelimit"
	"FundMonitor/pkg/config"
	xhttp "FundMonitor/pkg/http"
	applogger "FundMonitor/pkg/logger"
)

const (
	pruneEvery   = time.Minute
	limiterIdle  = 10 * time.Minute
	drainTimeout = 5 * time.Second
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	server   *xhttp.Server
	pipeline *middleware.EventPipeline
	limiter  *ratelimit.Limiter
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	server *xhttp.Server,
	pipeline *middleware.EventPipeline,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		server:   server,
		pipeline: pipeline,
		limiter:  limiter,
	}
}

// Run starts the background workers and the HTTP server, then blocks until
// ctx is cancelled and everything has shut down.
func (a *App) Run(ctx context.Context) error {
	// the pipeline is stopped explicitly after the server drains
	workers, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	if a.pipeline != nil {
		a.pipeline.Start(workers)
	}
	if a.limiter != nil {
		go a.pruneLoop(ctx)
	}

	if err := a.server.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("monitor started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no refresh can submit events to a
// stopped pipeline.
func (a *App) shutdown() error {
	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout+drainTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	if a.pipeline != nil {
		if err := a.pipeline.Stop(); err != nil {
			a.log.Warn("event pipeline stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) pruneLoop(ctx context.Context) {
	t := time.NewTicker(pruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(limiterIdle); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}
