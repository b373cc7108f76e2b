package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glennajones/gummy-bear/modules"
	"github.com/glennajones/gummy-bear/modules/hrm"
	"github.com/glennajones/gummy-bear/modules/layup"
	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/configuration"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
	"github.com/glennajones/gummy-bear/pkg/logging"
)

// cliEnv is a module registry bound to a pool, without the HTTP surface.
type cliEnv struct {
	pool *pgxpool.Pool
	app  application.Application
}

func (e *cliEnv) Close() {
	e.pool.Close()
}

// Context returns ctx carrying the pool for repositories.
func (e *cliEnv) Context(ctx context.Context) context.Context {
	return composables.WithPool(ctx, e.pool)
}

func connect(ctx context.Context) (*cliEnv, error) {
	if _, err := configuration.LoadEnv([]string{".env", ".env.local"}); err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("load env: %w", err))
	}
	conf, err := configuration.Parse()
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("db connect failed: %w", err))
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, fmt.Errorf("db connect failed: %w", err))
	}

	logger := logging.ConsoleLogger(conf.LogrusLogLevel())
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	// The re-planner is a server concern.
	layupOpts := conf.Layup
	layupOpts.ReplanInterval = 0
	if err := modules.Load(app, hrm.NewModule(), layup.NewModule(&layup.ModuleOptions{Layup: &layupOpts})); err != nil {
		pool.Close()
		return nil, withCode(exitUsage, err)
	}
	return &cliEnv{pool: pool, app: app}, nil
}
