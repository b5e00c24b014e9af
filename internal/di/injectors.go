//go:build wireinject
// +build wireinject

package di

import (
	"ecotrack/internal"
	"ecotrack/internal/controllers"
	"ecotrack/internal/host"
	"ecotrack/internal/providers"
	"ecotrack/internal/scheduler"
	"ecotrack/internal/services"
	"ecotrack/internal/storage"
	"ecotrack/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewStoreProvider,
		host.NewHost,
		services.NewTrackerService,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewEventController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
