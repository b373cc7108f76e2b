package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/pkg/composables"
)

const pgForeignKeyViolation = "23503"

const (
	assignmentSelectQuery = `
		SELECT order_id, mold_id, scheduled_date, is_override,
		       COALESCE(model_id, ''), COALESCE(product, ''), COALESCE(overridden_by, ''), overridden_at
		FROM layup_schedule
		WHERE scheduled_date BETWEEN $1 AND $2`

	assignmentOrder = ` ORDER BY scheduled_date, mold_id, order_id`

	deleteGeneratedQuery = `
		DELETE FROM layup_schedule
		WHERE NOT is_override AND scheduled_date BETWEEN $1 AND $2`

	insertGeneratedQuery = `
		INSERT INTO layup_schedule (order_id, mold_id, scheduled_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO UPDATE
		SET mold_id = EXCLUDED.mold_id, scheduled_date = EXCLUDED.scheduled_date, updated_at = NOW()
		WHERE NOT layup_schedule.is_override`

	upsertOverrideQuery = `
		INSERT INTO layup_schedule (order_id, mold_id, scheduled_date, is_override, model_id, product, overridden_by, overridden_at)
		VALUES ($1, $2, $3, TRUE, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
		ON CONFLICT (order_id) DO UPDATE
		SET mold_id = EXCLUDED.mold_id,
		    scheduled_date = EXCLUDED.scheduled_date,
		    is_override = TRUE,
		    model_id = EXCLUDED.model_id,
		    product = EXCLUDED.product,
		    overridden_by = EXCLUDED.overridden_by,
		    overridden_at = EXCLUDED.overridden_at,
		    updated_at = NOW()`
)

type ScheduleRepository struct{}

func NewScheduleRepository() schedule.Repository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) LoadPinned(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	return r.query(ctx, assignmentSelectQuery+` AND is_override`+assignmentOrder, from, to)
}

func (r *ScheduleRepository) ListWindow(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	return r.query(ctx, assignmentSelectQuery+assignmentOrder, from, to)
}

// ReplaceWindow runs in the caller's transaction when there is one. Pinned
// assignments in the input are already stored and are skipped.
func (r *ScheduleRepository) ReplaceWindow(ctx context.Context, from, to time.Time, assignments []schedule.Assignment) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(txCtx, deleteGeneratedQuery, dateOnly(from), dateOnly(to)); err != nil {
			return gerrors.Wrap(err, "failed to clear schedule window")
		}

		batch := &pgx.Batch{}
		for _, a := range assignments {
			if a.Pinned {
				continue
			}
			batch.Queue(insertGeneratedQuery, a.OrderID, a.MoldID, dateOnly(a.Date))
		}
		if batch.Len() == 0 {
			return nil
		}
		br := tx.SendBatch(txCtx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return mapScheduleError(err, "failed to store assignment")
			}
		}
		return br.Close()
	})
}

func (r *ScheduleRepository) Override(ctx context.Context, a schedule.Assignment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, upsertOverrideQuery,
		a.OrderID, a.MoldID, dateOnly(a.Date), a.ModelID, a.Product, a.OverriddenBy, a.OverriddenAt)
	if err != nil {
		return mapScheduleError(err, "failed to override assignment")
	}
	return nil
}

func (r *ScheduleRepository) query(ctx context.Context, sql string, from, to time.Time) ([]schedule.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sql, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query layup schedule")
	}
	defer rows.Close()

	var out []schedule.Assignment
	for rows.Next() {
		var a schedule.Assignment
		if err := rows.Scan(
			&a.OrderID, &a.MoldID, &a.Date, &a.Pinned, &a.ModelID, &a.Product, &a.OverriddenBy, &a.OverriddenAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan assignment")
		}
		a.Date = dateOnly(a.Date)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "failed to iterate layup schedule")
	}
	return out, nil
}

func mapScheduleError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return mold.ErrNotFound
	}
	return gerrors.Wrap(err, msg)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
