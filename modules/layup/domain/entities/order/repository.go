package order

import (
	"context"
	"time"
)

type Repository interface {
	// GetBacklog returns the orders waiting for layup in queue order.
	GetBacklog(ctx context.Context) ([]Order, error)
	MarkLOPScheduled(ctx context.Context, orderID string, date, at time.Time) error
}
