package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/pkg/composables"
)

const (
	settingSelectQuery = `
		SELECT employee_id, COALESCE(display_name, ''), rate::text, hours::text, department, is_active, updated_at
		FROM employee_layup_settings`

	settingUpsertQuery = `
		INSERT INTO employee_layup_settings (employee_id, display_name, rate, hours, department, is_active)
		VALUES ($1, NULLIF($2, ''), $3::numeric, $4::numeric, $5, $6)
		ON CONFLICT (employee_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    rate = EXCLUDED.rate,
		    hours = EXCLUDED.hours,
		    department = EXCLUDED.department,
		    is_active = EXCLUDED.is_active,
		    updated_at = NOW()
		RETURNING employee_id, COALESCE(display_name, ''), rate::text, hours::text, department, is_active, updated_at`
)

type LayupSettingRepository struct{}

func NewLayupSettingRepository() layupsetting.Repository {
	return &LayupSettingRepository{}
}

func (r *LayupSettingRepository) GetAll(ctx context.Context) ([]layupsetting.Setting, error) {
	return r.query(ctx, settingSelectQuery+` ORDER BY employee_id`)
}

func (r *LayupSettingRepository) GetActive(ctx context.Context, department string) ([]layupsetting.Setting, error) {
	return r.query(ctx, settingSelectQuery+` WHERE is_active AND department = $1 ORDER BY employee_id`, department)
}

func (r *LayupSettingRepository) GetByEmployeeID(ctx context.Context, employeeID string) (layupsetting.Setting, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return layupsetting.Setting{}, err
	}
	s, err := scanSetting(tx.QueryRow(ctx, settingSelectQuery+` WHERE employee_id = $1`, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return layupsetting.Setting{}, layupsetting.ErrNotFound
	}
	return s, err
}

func (r *LayupSettingRepository) Upsert(ctx context.Context, s layupsetting.Setting) (layupsetting.Setting, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return layupsetting.Setting{}, err
	}
	row := tx.QueryRow(ctx, settingUpsertQuery,
		s.EmployeeID, s.DisplayName, s.Rate.String(), s.Hours.String(), s.Department, s.Active,
	)
	return scanSetting(row)
}

func (r *LayupSettingRepository) query(ctx context.Context, sql string, args ...any) ([]layupsetting.Setting, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query layup settings")
	}
	defer rows.Close()

	var out []layupsetting.Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "failed to iterate layup settings")
	}
	return out, nil
}

func scanSetting(row pgx.Row) (layupsetting.Setting, error) {
	var (
		s     layupsetting.Setting
		rate  string
		hours string
	)
	if err := row.Scan(&s.EmployeeID, &s.DisplayName, &rate, &hours, &s.Department, &s.Active, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return layupsetting.Setting{}, err
		}
		return layupsetting.Setting{}, gerrors.Wrap(err, "failed to scan layup setting")
	}
	s.Rate = parseDecimal(rate, layupsetting.DefaultRate)
	s.Hours = parseDecimal(hours, layupsetting.DefaultHours)
	return s, nil
}

func parseDecimal(v string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return fallback
	}
	return d
}
