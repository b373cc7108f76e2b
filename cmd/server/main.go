package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/glennajones/gummy-bear/modules"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/configuration"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
	"github.com/glennajones/gummy-bear/pkg/logging"
	"github.com/glennajones/gummy-bear/pkg/metrics"
	"github.com/glennajones/gummy-bear/pkg/middleware"
	"github.com/glennajones/gummy-bear/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules()...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.Migrations().Up(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	app.RegisterMiddleware(
		middleware.WithPool(pool),
		middleware.WithLogger(logger, conf.RequestIDHeader),
	)
	if conf.RateLimit.Enabled {
		store := middleware.NewMemoryStore()
		if conf.RateLimit.Storage == "redis" {
			redisStore, err := middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
			} else {
				store = redisStore
			}
		}
		app.RegisterMiddleware(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Store:             store,
		}))
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	startWorkers(ctx, app.Workers(), pool, logger)

	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := server.NewHTTPServer(app, conf.CORS.Origins()).Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// startWorkers runs each background worker with the pool on its context.
func startWorkers(ctx context.Context, workers []application.Worker, pool *pgxpool.Pool, logger *logrus.Logger) {
	for _, w := range workers {
		go func(w application.Worker) {
			workerLog := logger.WithField("worker", w.Name())
			workerLog.Info("worker started")
			wctx := composables.WithLogger(composables.WithPool(ctx, pool), workerLog)
			if err := w.Run(wctx); err != nil && !errors.Is(err, context.Canceled) {
				workerLog.WithError(err).Error("worker stopped")
			}
		}(w)
	}
}
