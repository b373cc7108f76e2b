package services

import (
	"context"
	"errors"
	"strings"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
)

type LayupSettingService struct {
	repo      layupsetting.Repository
	publisher eventbus.EventBus
}

func NewLayupSettingService(repo layupsetting.Repository, publisher eventbus.EventBus) *LayupSettingService {
	return &LayupSettingService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *LayupSettingService) GetAll(ctx context.Context) ([]layupsetting.Setting, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]layupsetting.Setting, error) {
		return s.repo.GetAll(txCtx)
	})
}

// GetActive returns the active technicians of a department. An empty
// department means the layup department.
func (s *LayupSettingService) GetActive(ctx context.Context, department string) ([]layupsetting.Setting, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		department = layupsetting.DefaultDepartment
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]layupsetting.Setting, error) {
		return s.repo.GetActive(txCtx, department)
	})
}

// Update applies dto to an employee's setting, creating it with defaults
// when the employee has none yet.
func (s *LayupSettingService) Update(ctx context.Context, employeeID string, dto layupsetting.UpdateDTO) (layupsetting.Setting, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return layupsetting.Setting{}, layupsetting.ErrNotFound
	}
	var ev layupsetting.UpdatedEvent
	saved, err := composables.InTxResult(ctx, func(txCtx context.Context) (layupsetting.Setting, error) {
		current, err := s.repo.GetByEmployeeID(txCtx, employeeID)
		switch {
		case err == nil:
			prev := current
			ev.Previous = &prev
		case errors.Is(err, layupsetting.ErrNotFound):
			current = layupsetting.Setting{
				EmployeeID: employeeID,
				Rate:       layupsetting.DefaultRate,
				Hours:      layupsetting.DefaultHours,
				Department: layupsetting.DefaultDepartment,
				Active:     true,
			}
		default:
			return layupsetting.Setting{}, err
		}

		next := dto.Apply(current)
		if err := next.Validate(); err != nil {
			return layupsetting.Setting{}, err
		}
		return s.repo.Upsert(txCtx, next)
	})
	if err != nil {
		return layupsetting.Setting{}, err
	}
	ev.Result = saved
	s.publisher.Publish(ev)
	return saved, nil
}
