package size

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/size/dto"
)

type Repository interface {
	Create(ctx context.Context, size *model.Size) error
	FindByID(ctx context.Context, id string) (*model.Size, error)
	FindAll(ctx context.Context, filters *dto.SizeFilters) ([]model.Size, int, error)
	Update(ctx context.Context, size *model.Size) error
}
