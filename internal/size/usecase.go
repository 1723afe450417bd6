package size

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
)

var (
	ErrNotFound     = errors.New("size not found")
	ErrNameRequired = errors.New("size name is required")
)

type UseCase interface {
	CreateSize(ctx context.Context, input *dto.CreateSizeInput) (*model.Size, error)
	GetSize(ctx context.Context, id string) (*model.Size, error)
	ListSizes(ctx context.Context, filters *dto.SizeFilters) ([]model.Size, int, error)
	UpdateSize(ctx context.Context, input *dto.UpdateSizeInput) (*model.Size, error)
	DeactivateSize(ctx context.Context, id string) error
}
