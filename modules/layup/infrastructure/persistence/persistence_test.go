package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/modules/hrm"
	"github.com/glennajones/gummy-bear/modules/layup"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/modules/layup/infrastructure/persistence"
	"github.com/glennajones/gummy-bear/pkg/configuration"
	"github.com/glennajones/gummy-bear/pkg/itf"
)

func date(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	conf, err := configuration.Parse()
	require.NoError(t, err)
	return itf.NewTestContext().
		WithModules(hrm.NewModule(), layup.NewModule(&layup.ModuleOptions{Layup: &conf.Layup})).
		Build(t)
}

func TestMoldRepository(t *testing.T) {
	te := setup(t)
	repo := persistence.NewMoldRepository()

	te.InTx(t, func(ctx context.Context) {
		require.NoError(t, repo.Create(ctx, mold.Mold{ID: "M2", ModelName: "Alpine", InstanceNumber: 1, Enabled: true, Multiplier: 1}))
		require.NoError(t, repo.Create(ctx, mold.Mold{ID: "M1", ModelName: "Cat", InstanceNumber: 1, Enabled: true, Multiplier: 2, StockModels: []string{"cat_hunter"}}))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "M2", all[0].ID)
		require.Equal(t, []string{"cat_hunter"}, all[1].StockModels)

		require.NoError(t, repo.SetEnabled(ctx, "M1", false))
		m, err := repo.GetByID(ctx, "M1")
		require.NoError(t, err)
		require.False(t, m.Enabled)
		require.Equal(t, 2, m.Multiplier)

		require.ErrorIs(t, repo.SetEnabled(ctx, "nope", true), mold.ErrNotFound)
		_, err = repo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, mold.ErrNotFound)
	})
}

func TestQueueRepository(t *testing.T) {
	te := setup(t)
	te.Exec(t, `
		INSERT INTO production_queue (order_id, stock_model_id, product, source, department, order_date, due_date, priority_score, features, queue_position, is_active)
		VALUES
			('A', 'cat_hunter', NULL, 'main_orders', 'Layup', '2025-03-01', '2025-03-20', 5, '{"length_of_pull":"extra_half"}', 2, TRUE),
			('B', NULL, 'Mesa - Universal', 'production_order', 'Layup', '2025-03-02', NULL, NULL, NULL, 1, TRUE),
			('C', 'cat_hunter', NULL, 'main_orders', 'Finish', '2025-03-02', NULL, NULL, NULL, 0, TRUE),
			('D', 'cat_hunter', NULL, 'main_orders', 'Layup', '2025-03-02', NULL, NULL, NULL, 0, FALSE)`)
	repo := persistence.NewQueueRepository("")

	te.InTx(t, func(ctx context.Context) {
		backlog, err := repo.GetBacklog(ctx)
		require.NoError(t, err)
		require.Len(t, backlog, 2)
		require.Equal(t, "B", backlog[0].ID)
		require.Equal(t, "Mesa - Universal", backlog[0].Product)
		require.Nil(t, backlog[0].PriorityScore)
		require.Equal(t, "A", backlog[1].ID)
		require.Equal(t, 5, *backlog[1].PriorityScore)
		require.Equal(t, "extra_half", backlog[1].Features.LengthOfPull)

		at := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
		require.NoError(t, repo.MarkLOPScheduled(ctx, "A", date(10), at))
		backlog, err = repo.GetBacklog(ctx)
		require.NoError(t, err)
		require.True(t, backlog[1].LastLOPScheduledAt.Equal(at))
	})
}

func TestScheduleRepository(t *testing.T) {
	te := setup(t)
	te.Exec(t, `INSERT INTO molds (mold_id, model_name) VALUES ('M1', 'Cat'), ('M2', 'Alpine')`)
	repo := persistence.NewScheduleRepository()
	overriddenAt := time.Date(2025, time.March, 4, 12, 0, 0, 0, time.UTC)

	te.InTx(t, func(ctx context.Context) {
		require.NoError(t, repo.Override(ctx, schedule.Assignment{
			OrderID: "P", MoldID: "M2", Date: date(5), Pinned: true, ModelID: "mesa_universal",
			OverriddenBy: "lead", OverriddenAt: &overriddenAt,
		}))
	})
	require.ErrorIs(t, repo.Override(te.Ctx, schedule.Assignment{OrderID: "Q", MoldID: "M9", Date: date(5), Pinned: true}), mold.ErrNotFound)

	te.InTx(t, func(ctx context.Context) {
		require.NoError(t, repo.ReplaceWindow(ctx, date(5), date(14), []schedule.Assignment{
			{OrderID: "A", MoldID: "M1", Date: date(5)},
			{OrderID: "B", MoldID: "M1", Date: date(6)},
			{OrderID: "P", MoldID: "M1", Date: date(6)},
		}))
		require.NoError(t, repo.ReplaceWindow(ctx, date(5), date(14), []schedule.Assignment{
			{OrderID: "A", MoldID: "M1", Date: date(10)},
		}))

		all, err := repo.ListWindow(ctx, date(1), date(31))
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "P", all[0].OrderID)
		require.Equal(t, "M2", all[0].MoldID)
		require.True(t, all[0].Pinned)
		require.Equal(t, "lead", all[0].OverriddenBy)
		require.Equal(t, "A", all[1].OrderID)
		require.True(t, all[1].Date.Equal(date(10)))

		pinned, err := repo.LoadPinned(ctx, date(5), date(14))
		require.NoError(t, err)
		require.Len(t, pinned, 1)
		require.Equal(t, "P", pinned[0].OrderID)
		require.Equal(t, "mesa_universal", pinned[0].ModelID)
		require.Empty(t, pinned[0].Product)
	})
}

func TestAdvisoryLock(t *testing.T) {
	te := setup(t)
	first := persistence.NewAdvisoryLock(te.Pool, "layup.test")
	second := persistence.NewAdvisoryLock(te.Pool, "layup.test")

	release, acquired, err := first.TryLock(te.Ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquired, err = second.TryLock(te.Ctx)
	require.NoError(t, err)
	require.False(t, acquired)

	release()
	release2, acquired, err := second.TryLock(te.Ctx)
	require.NoError(t, err)
	require.True(t, acquired)
	release2()
}
