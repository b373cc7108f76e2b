package mold

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Mold, error)
	GetByID(ctx context.Context, id string) (Mold, error)
	Create(ctx context.Context, m Mold) error
	Update(ctx context.Context, m Mold) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
}
