package services

import (
	"context"
	"strings"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
	"github.com/glennajones/gummy-bear/pkg/serrors"
)

var ErrInvalidMold = serrors.NewError("LAYUP_INVALID_MOLD", "mold id and model name are required", "")

type MoldService struct {
	repo      mold.Repository
	publisher eventbus.EventBus
}

func NewMoldService(repo mold.Repository, publisher eventbus.EventBus) *MoldService {
	return &MoldService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *MoldService) GetAll(ctx context.Context) ([]mold.Mold, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]mold.Mold, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *MoldService) GetByID(ctx context.Context, id string) (mold.Mold, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (mold.Mold, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *MoldService) Create(ctx context.Context, m mold.Mold) (mold.Mold, error) {
	m = normalize(m)
	if m.ID == "" || m.ModelName == "" {
		return mold.Mold{}, ErrInvalidMold
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, m)
	}); err != nil {
		return mold.Mold{}, err
	}
	s.publisher.Publish(mold.UpdatedEvent{Mold: m})
	return m, nil
}

// SetEnabled toggles whether the scheduler may assign work to a mold.
func (s *MoldService) SetEnabled(ctx context.Context, id string, enabled bool) (mold.Mold, error) {
	m, err := composables.InTxResult(ctx, func(txCtx context.Context) (mold.Mold, error) {
		if err := s.repo.SetEnabled(txCtx, id, enabled); err != nil {
			return mold.Mold{}, err
		}
		return s.repo.GetByID(txCtx, id)
	})
	if err != nil {
		return mold.Mold{}, err
	}
	s.publisher.Publish(mold.UpdatedEvent{Mold: m})
	return m, nil
}

// Update replaces a mold's configuration.
func (s *MoldService) Update(ctx context.Context, m mold.Mold) (mold.Mold, error) {
	m = normalize(m)
	if m.ID == "" || m.ModelName == "" {
		return mold.Mold{}, ErrInvalidMold
	}
	if err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, m)
	}); err != nil {
		return mold.Mold{}, err
	}
	s.publisher.Publish(mold.UpdatedEvent{Mold: m})
	return m, nil
}

func normalize(m mold.Mold) mold.Mold {
	m.ID = strings.TrimSpace(m.ID)
	m.ModelName = strings.TrimSpace(m.ModelName)
	if m.Multiplier < 1 {
		m.Multiplier = 1
	}
	models := make([]string, 0, len(m.StockModels))
	for _, sm := range m.StockModels {
		if sm = strings.TrimSpace(sm); sm != "" {
			models = append(models, sm)
		}
	}
	m.StockModels = models
	return m
}
