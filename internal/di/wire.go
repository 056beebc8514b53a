//go:build wireinject
// +build wireinject

package di

import (
	"FinDash/pkg/config"
	"FinDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideUpstreamClient,
		ProvideClientLimiter,

		// Calendar
		ProvideCatalog,
		ProvideEventGenerator,
		ProvideHistoryLookup,
		ProvideCalendarUseCase,

		// Market feeds
		ProvideCoinGecko,
		ProvideYahoo,
		ProvideMarketUseCase,
		ProvideScheduler,

		// Application server
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
