package garment

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/garment/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, garment *model.Garment) error
	FindByID(ctx context.Context, id string) (*model.Garment, error)
	FindAll(ctx context.Context, filters *dto.GarmentFilters) ([]model.Garment, int, error)
	Update(ctx context.Context, garment *model.Garment) error
}
