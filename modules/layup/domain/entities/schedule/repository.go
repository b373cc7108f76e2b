package schedule

import (
	"context"
	"time"
)

// Repository stores layup assignments. Windows are inclusive date ranges.
type Repository interface {
	// LoadPinned returns manually overridden assignments dated within the window.
	LoadPinned(ctx context.Context, from, to time.Time) ([]Assignment, error)
	ListWindow(ctx context.Context, from, to time.Time) ([]Assignment, error)
	// ReplaceWindow drops the non-pinned assignments in the window and stores
	// the given ones in their place.
	ReplaceWindow(ctx context.Context, from, to time.Time, assignments []Assignment) error
	Override(ctx context.Context, a Assignment) error
}
