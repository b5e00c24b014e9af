package internal

import (
	"context"
	"ecotrack/internal/controllers"
	"ecotrack/internal/providers"
	"ecotrack/internal/scheduler/interfaces"
	"ecotrack/internal/services"
	storage "ecotrack/internal/storage/interfaces"
	"ecotrack/internal/structures"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler mounts the infrastructure endpoints next to the instrumented,
// access-logged API routes.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	instrumentedAPI := providers.MetricsMiddleware(metrics, router.GetRoutes(), router.Handler())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return providers.AccessLogMiddleware(logger, mux)
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, tracker services.TrackerServiceInterface, store storage.KeyValueStore, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if conf.Simulation.Enabled {
		logger.Infof(providers.TypeApp, "Simulation mode, seed %d", conf.Simulation.Seed)
	}

	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(healthController, conf, logger, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		_ = tracker.Close()
		_ = store.Close()
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	if err = scheduler.Persist(); err != nil {
		logger.Errorf(providers.TypeApp, "Final persist failed: %s", err)
	}
	if err = tracker.Close(); err != nil {
		return nil, err
	}
	if err = store.Close(); err != nil {
		return nil, fmt.Errorf("close store: %w", err)
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
