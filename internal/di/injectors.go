//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"reelsd/internal"
	"reelsd/internal/controllers"
	"reelsd/internal/event"
	"reelsd/internal/providers"
	"reelsd/internal/scheduler"
	"reelsd/internal/storage"
	"reelsd/internal/structures"
	"reelsd/internal/timer"
	"reelsd/internal/tracker"
)

var storageSet = wire.NewSet(
	storage.NewStoreProvider,
	storage.NewZstdCompressor,
	storage.NewRepository,
	storage.NewFileManager,
	wire.Bind(new(storage.SnapshotSource), new(tracker.ServiceInterface)),
)

var trackerSet = wire.NewSet(
	event.NewBus,
	wire.Bind(new(event.Notifier), new(event.BusInterface)),
	tracker.NewClock,
	tracker.NewService,
)

var timerSet = wire.NewSet(
	timer.NewTickerFactory,
	timer.NewCoordinator,
	timer.NewBackgroundLink,
	timer.NewController,
	wire.Bind(new(timer.CoordinatorInterface), new(*timer.Coordinator)),
	wire.Bind(new(timer.ControllerInterface), new(*timer.Controller)),
	wire.Bind(new(timer.Recorder), new(tracker.ServiceInterface)),
	wire.Bind(new(timer.PreferenceStore), new(storage.RepositoryInterface)),
)

// InitService builds the tracker core without the HTTP surface, for one-shot
// CLI commands.
func InitService(cfg *structures.CliFlags) (*internal.Core, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		storageSet,
		trackerSet,
		internal.NewCore,
	)

	return nil, nil, nil
}

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storageSet,
		trackerSet,
		timerSet,
		scheduler.NewScheduler,
		wire.Bind(new(scheduler.FocusRefresher), new(tracker.ServiceInterface)),
		controllers.NewApiController,
		controllers.NewEventsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
