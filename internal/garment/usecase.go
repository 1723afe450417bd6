package garment

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-uniform-service/internal/garment/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
)

var (
	ErrNotFound     = errors.New("garment not found")
	ErrNameRequired = errors.New("garment name is required")
)

type UseCase interface {
	CreateGarment(ctx context.Context, input *dto.CreateGarmentInput) (*model.Garment, error)
	GetGarment(ctx context.Context, id string) (*model.Garment, error)
	ListGarments(ctx context.Context, filters *dto.GarmentFilters) ([]model.Garment, int, error)
	UpdateGarment(ctx context.Context, input *dto.UpdateGarmentInput) (*model.Garment, error)
	// DeactivateGarment hides a garment; garments are never deleted because
	// cost rows and order history reference them.
	DeactivateGarment(ctx context.Context, id string) error
}
