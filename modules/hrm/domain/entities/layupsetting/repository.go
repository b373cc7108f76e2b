package layupsetting

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Setting, error)
	// GetActive returns the active settings of one department.
	GetActive(ctx context.Context, department string) ([]Setting, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (Setting, error)
	Upsert(ctx context.Context, s Setting) (Setting, error)
}
