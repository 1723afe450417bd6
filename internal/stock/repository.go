package stock

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
)

type Repository interface {
	// Cost rows
	GetCost(ctx context.Context, key model.StockKey) (*model.Cost, error)
	FindAll(ctx context.Context, filters *dto.CostFilters) ([]model.Cost, int, error)
	// CreateCost returns ErrCostExists when the key is already taken.
	CreateCost(ctx context.Context, cost *model.Cost) error
	UpdatePrice(ctx context.Context, cost *model.Cost) error

	// ApplyAdjustments applies every adjustment and its movement inside one
	// transaction. A failure returns *AdjustmentError and nothing is kept.
	ApplyAdjustments(ctx context.Context, adjustments []model.StockAdjustment) ([]model.StockMovement, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
