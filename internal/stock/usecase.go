package stock

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
)

type UseCase interface {
	ApplySale(ctx context.Context, input *dto.SaleInput) (*dto.BatchResult, error)
	ApplyCancellation(ctx context.Context, input *dto.SaleInput) (*dto.BatchResult, error)
	ApplyReturn(ctx context.Context, input *dto.ReturnInput) (*dto.BatchResult, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	PriceCost(ctx context.Context, input *dto.PriceCostInput) (*model.Cost, error)
	GetStock(ctx context.Context, key model.StockKey) (*model.Cost, error)
	ListLowStock(ctx context.Context, branchID string, page, pageSize int) ([]model.Cost, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
