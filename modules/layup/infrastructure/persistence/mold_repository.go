package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/pkg/composables"
)

const (
	moldSelectQuery = `
		SELECT mold_id, model_name, instance_number, stock_models, multiplier, enabled
		FROM molds`

	moldInsertQuery = `
		INSERT INTO molds (mold_id, model_name, instance_number, stock_models, multiplier, enabled, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM molds))`

	moldUpdateQuery = `
		UPDATE molds
		SET model_name = $2, instance_number = $3, stock_models = $4, multiplier = $5, enabled = $6, updated_at = NOW()
		WHERE mold_id = $1`

	moldSetEnabledQuery = `UPDATE molds SET enabled = $2, updated_at = NOW() WHERE mold_id = $1`
)

type MoldRepository struct{}

func NewMoldRepository() mold.Repository {
	return &MoldRepository{}
}

// GetAll returns every mold in catalog order.
func (r *MoldRepository) GetAll(ctx context.Context) ([]mold.Mold, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, moldSelectQuery+` ORDER BY sort_order, mold_id`)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query molds")
	}
	defer rows.Close()

	var out []mold.Mold
	for rows.Next() {
		m, err := scanMold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "failed to iterate molds")
	}
	return out, nil
}

func (r *MoldRepository) GetByID(ctx context.Context, id string) (mold.Mold, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return mold.Mold{}, err
	}
	m, err := scanMold(tx.QueryRow(ctx, moldSelectQuery+` WHERE mold_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return mold.Mold{}, mold.ErrNotFound
	}
	return m, err
}

func (r *MoldRepository) Create(ctx context.Context, m mold.Mold) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, moldInsertQuery, moldArgs(m)...); err != nil {
		return gerrors.Wrap(err, "failed to create mold")
	}
	return nil
}

func (r *MoldRepository) Update(ctx context.Context, m mold.Mold) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, moldUpdateQuery, moldArgs(m)...)
	if err != nil {
		return gerrors.Wrap(err, "failed to update mold")
	}
	if tag.RowsAffected() == 0 {
		return mold.ErrNotFound
	}
	return nil
}

func (r *MoldRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, moldSetEnabledQuery, id, enabled)
	if err != nil {
		return gerrors.Wrap(err, "failed to toggle mold")
	}
	if tag.RowsAffected() == 0 {
		return mold.ErrNotFound
	}
	return nil
}

func moldArgs(m mold.Mold) []any {
	stockModels := m.StockModels
	if stockModels == nil {
		stockModels = []string{}
	}
	return []any{m.ID, m.ModelName, m.InstanceNumber, stockModels, max(m.Multiplier, 1), m.Enabled}
}

func scanMold(row pgx.Row) (mold.Mold, error) {
	var m mold.Mold
	if err := row.Scan(&m.ID, &m.ModelName, &m.InstanceNumber, &m.StockModels, &m.Multiplier, &m.Enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mold.Mold{}, err
		}
		return mold.Mold{}, gerrors.Wrap(err, "failed to scan mold")
	}
	return m, nil
}
