package itf

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/pkg/application"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/configuration"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
	"github.com/glennajones/gummy-bear/pkg/logging"
)

// TestContext provides a fluent API for building integration test environments.
type TestContext struct {
	ctx     context.Context
	modules []application.Module
	dbName  string
}

func NewTestContext() *TestContext {
	return &TestContext{ctx: context.Background()}
}

func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

// WithDBName sets a custom database name; the test name is used otherwise.
func (tc *TestContext) WithDBName(name string) *TestContext {
	tc.dbName = name
	return tc
}

// Build creates a fresh database, registers the modules and applies their
// migrations. The returned context carries the pool but no transaction.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	conf, err := configuration.Parse()
	require.NoError(tb, err)

	name := tc.dbName
	if name == "" {
		name = tb.Name()
	}
	dbName := CreateDB(tb, tc.ctx, conf, name)
	pool := NewPool(tb, DbOpts(conf, dbName))
	tb.Cleanup(pool.Close)

	logger := logging.ConsoleLogger(logrus.WarnLevel)
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	for _, m := range tc.modules {
		require.NoError(tb, m.Register(app), "register module %s", m.Name())
	}
	require.NoError(tb, app.Migrations().Up(tc.ctx))

	return &TestEnvironment{
		Ctx:  composables.WithPool(tc.ctx, pool),
		Pool: pool,
		App:  app,
	}
}

// TestEnvironment contains all test dependencies
type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
	App  application.Application
}

// GetService is a generic helper that retrieves and casts a service
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	service := te.App.Service(zero)
	if service == nil {
		return nil
	}
	return service.(*T)
}

// InTx runs fn in a transaction that is committed when fn returns.
func (te *TestEnvironment) InTx(tb testing.TB, fn func(ctx context.Context)) {
	tb.Helper()
	tx, err := te.Pool.Begin(te.Ctx)
	require.NoError(tb, err)
	defer func() { _ = tx.Rollback(te.Ctx) }()

	fn(composables.WithTx(te.Ctx, tx))
	require.NoError(tb, tx.Commit(te.Ctx))
}

// Exec runs raw SQL for fixtures.
func (te *TestEnvironment) Exec(tb testing.TB, sql string, args ...any) {
	tb.Helper()
	_, err := te.Pool.Exec(te.Ctx, sql, args...)
	require.NoError(tb, err)
}
