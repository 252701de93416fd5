//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"dlb/internal"
	"dlb/internal/controllers"
	"dlb/internal/poller"
	"dlb/internal/providers"
	"dlb/internal/services"
	"dlb/internal/structures"
	"dlb/internal/upstream"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewBreakerProvider,

		upstream.NewClient,
		upstream.NewScraper,
		upstream.NewAvatarStore,

		services.NewLeaderboardService,

		poller.NewZstdCompressor,
		poller.NewFileManager,
		poller.NewScheduler,

		controllers.NewLeaderboardController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
