//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"codeboard/internal"
	"codeboard/internal/controllers"
	"codeboard/internal/heatmap"
	"codeboard/internal/providers"
	"codeboard/internal/repository"
	"codeboard/internal/services"
	"codeboard/internal/structures"
	"codeboard/internal/upstream"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		repository.NewPgPool,
		repository.NewPgConnection,
		repository.NewHeatmapRepo,
		repository.NewUsersRepo,

		upstream.NewLeetCodeClient,
		upstream.NewGitHubClient,
		upstream.NewGFGClient,

		services.NewHeatmapService,
		services.NewStatsService,

		heatmap.NewZstdCompressor,
		heatmap.NewExporter,
		heatmap.NewScheduler,

		controllers.NewHeatmapController,
		controllers.NewStatsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
