package persistence

import (
	"context"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/order"
	"github.com/glennajones/gummy-bear/pkg/composables"
)

const DefaultDepartment = "Layup"

const (
	backlogQuery = `
		SELECT order_id, COALESCE(stock_model_id, ''), COALESCE(product, ''), source,
		       order_date, due_date, priority_score, features,
		       priority_changed_at, last_lop_scheduled_at
		FROM production_queue
		WHERE is_active AND department = $1
		ORDER BY queue_position, order_id`

	markLOPScheduledQuery = `
		UPDATE production_queue
		SET lop_adjustment_date = $2, last_lop_scheduled_at = $3, updated_at = NOW()
		WHERE order_id = $1`
)

// QueueRepository reads the production queue of one department.
type QueueRepository struct {
	department string
}

func NewQueueRepository(department string) order.Repository {
	department = strings.TrimSpace(department)
	if department == "" {
		department = DefaultDepartment
	}
	return &QueueRepository{department: department}
}

func (r *QueueRepository) GetBacklog(ctx context.Context) ([]order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, backlogQuery, r.department)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query production queue")
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var (
			o        order.Order
			source   string
			features []byte
		)
		if err := rows.Scan(
			&o.ID, &o.StockModelID, &o.Product, &source,
			&o.OrderDate, &o.DueDate, &o.PriorityScore, &features,
			&o.PriorityChangedAt, &o.LastLOPScheduledAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan queued order")
		}
		o.Source = order.Source(source)
		o.Features = order.ParseFeatures(features)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "failed to iterate production queue")
	}
	return out, nil
}

func (r *QueueRepository) MarkLOPScheduled(ctx context.Context, orderID string, date, at time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, markLOPScheduledQuery, orderID, date, at); err != nil {
		return gerrors.Wrapf(err, "failed to mark LOP scheduled for %s", orderID)
	}
	return nil
}
