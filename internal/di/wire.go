//go:build wireinject
// +build wireinject

package di

import (
	"FundMonitor/pkg/config"
	"FundMonitor/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Caches and upstream sources
		ProvideRedisClient,
		ProvideIndexCache,
		ProvideFundCache,
		ProvideIndexSource,
		ProvideFundSource,

		// Domain services
		ProvideSentimentEngine,
		ProvideAdvisor,

		// Cycle event delivery
		ProvideCyclePublisher,
		ProvideEventPipeline,

		// Use cases
		ProvideMonitorState,
		ProvideRefresher,
		ProvideConfigUseCase,

		// HTTP
		ProvideAPIMetrics,
		ProvideRateLimiter,
		ProvideStreamHandler,
		ProvideMonitorHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
