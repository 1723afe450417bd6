package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/size"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sizeUseCase struct {
	repo   size.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewSizeUseCase(repo size.Repository, log logger.ZapLogger) size.UseCase {
	return &sizeUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (uc *sizeUseCase) CreateSize(ctx context.Context, input *dto.CreateSizeInput) (*model.Size, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, size.ErrNameRequired
	}

	now := uc.now()
	s := &model.Size{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Info("size created", zap.String("size_id", s.ID), zap.String("name", s.Name))
	return s, nil
}

func (uc *sizeUseCase) GetSize(ctx context.Context, id string) (*model.Size, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, size.ErrNotFound
	}
	return s, nil
}

func (uc *sizeUseCase) ListSizes(ctx context.Context, filters *dto.SizeFilters) ([]model.Size, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *sizeUseCase) UpdateSize(ctx context.Context, input *dto.UpdateSizeInput) (*model.Size, error) {
	s, err := uc.GetSize(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, size.ErrNameRequired
	}

	s.Name = name
	s.DisplayOrder = input.DisplayOrder
	s.IsActive = input.IsActive
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// DeactivateSize is a soft delete; cost rows keep pointing at the size.
func (uc *sizeUseCase) DeactivateSize(ctx context.Context, id string) error {
	s, err := uc.GetSize(ctx, id)
	if err != nil {
		return err
	}
	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	s.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, s)
}
