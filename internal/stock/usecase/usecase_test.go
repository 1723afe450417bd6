package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	shirtM = model.StockKey{GarmentID: "shirt", SizeID: "m", BranchID: "branch-a"}
	pantsL = model.StockKey{GarmentID: "pants", SizeID: "l", BranchID: "branch-a"}
	skirtS = model.StockKey{GarmentID: "skirt", SizeID: "s", BranchID: "branch-a"}
)

func newTestUseCase() (stock.UseCase, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return NewStockUseCase(repo, logger.NewNop()), repo
}

func stockOf(t *testing.T, repo *repository.MemoryRepository, key model.StockKey) int {
	t.Helper()
	level, ok := repo.Stock(key)
	require.True(t, ok, "cost row %v missing", key)
	return level
}

func TestApplySale_SubtractsQuantity(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 2)

	res, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		OrderID:  "order-1",
		Lines:    []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, stockOf(t, repo, shirtM))
	require.Len(t, res.Results, 1)
	assert.Equal(t, dto.OutcomeApplied, res.Results[0].Outcome)
	assert.Equal(t, 10, res.Results[0].StockBefore)
	assert.Equal(t, 6, res.Results[0].StockAfter)
	assert.False(t, res.Partial())
}

func TestApplySale_AllowsNegativeStock(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 2, 0)

	_, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		Lines:    []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, -3, stockOf(t, repo, shirtM))
}

func TestApplySale_MissingCostRowDoesNotBlockOtherLines(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)
	repo.Seed(skirtS, 7, 0)

	res, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		Lines: []dto.LineInput{
			{GarmentID: "shirt", SizeID: "m", Quantity: 1},
			{GarmentID: "pants", SizeID: "l", Quantity: 1},
			{GarmentID: "skirt", SizeID: "s", Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, stockOf(t, repo, shirtM))
	assert.Equal(t, 5, stockOf(t, repo, skirtS))
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.Partial())
	assert.Equal(t, dto.OutcomeSkipped, res.Results[1].Outcome)
	assert.Equal(t, 1, res.Results[1].Line)
}

func TestApplySale_BackendFailureIsReportedAndBatchContinues(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)
	repo.Seed(pantsL, 10, 0)
	repo.FailOn(shirtM, errors.New("connection reset"))

	res, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		Lines: []dto.LineInput{
			{GarmentID: "shirt", SizeID: "m", Quantity: 1},
			{GarmentID: "pants", SizeID: "l", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, stockOf(t, repo, shirtM))
	assert.Equal(t, 7, stockOf(t, repo, pantsL))
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.Results[0].Error, "connection reset")
}

func TestApplySale_AtomicRollsBackOnMiss(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)

	res, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		Atomic:   true,
		Lines: []dto.LineInput{
			{GarmentID: "shirt", SizeID: "m", Quantity: 4},
			{GarmentID: "pants", SizeID: "l", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, stockOf(t, repo, shirtM))
	assert.True(t, res.RolledBack)
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, dto.OutcomeFailed, res.Results[0].Outcome)
	assert.Equal(t, dto.OutcomeSkipped, res.Results[1].Outcome)
}

func TestApplySale_AtomicAppliesAll(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)

	res, err := uc.ApplySale(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		Atomic:   true,
		Lines: []dto.LineInput{
			{GarmentID: "shirt", SizeID: "m", Quantity: 4},
			{GarmentID: "shirt", SizeID: "m", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, stockOf(t, repo, shirtM))
	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 6, res.Results[1].StockBefore)
	assert.Equal(t, 5, res.Results[1].StockAfter)
}

func TestApplySale_Validation(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.ApplySale(context.Background(), &dto.SaleInput{Lines: []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 1}}})
	assert.ErrorIs(t, err, stock.ErrMissingBranch)

	_, err = uc.ApplySale(context.Background(), &dto.SaleInput{BranchID: "branch-a"})
	assert.ErrorIs(t, err, stock.ErrEmptyBatch)
}

func TestApplyCancellation_RestoresStock(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 6, 0)

	_, err := uc.ApplyCancellation(context.Background(), &dto.SaleInput{
		BranchID: "branch-a",
		OrderID:  "order-1",
		Lines:    []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, stockOf(t, repo, shirtM))
}

func TestApplyReturn_NonExchangeAddsQuantity(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 3, 0)

	res, err := uc.ApplyReturn(context.Background(), &dto.ReturnInput{
		BranchID: "branch-a",
		ReturnID: "ret-1",
		Kind:     model.ReturnPartial,
		Lines:    []model.ReturnLine{{GarmentID: "shirt", SizeID: "m", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, stockOf(t, repo, shirtM))
	assert.Len(t, res.Results, 1)
}

func TestApplyReturn_PartialReturnIgnoresReplacementFields(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 3, 0)
	repo.Seed(pantsL, 20, 0)

	_, err := uc.ApplyReturn(context.Background(), &dto.ReturnInput{
		BranchID: "branch-a",
		Kind:     model.ReturnFull,
		Lines: []model.ReturnLine{{
			GarmentID: "shirt", SizeID: "m", Quantity: 1,
			ReplacementGarmentID: "pants", ReplacementSizeID: "l", ReplacementQuantity: 1,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, stockOf(t, repo, shirtM))
	assert.Equal(t, 20, stockOf(t, repo, pantsL))
}

func TestSaleThenExchangeReturn(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)
	repo.Seed(pantsL, 20, 0)
	ctx := context.Background()

	_, err := uc.ApplySale(ctx, &dto.SaleInput{
		BranchID: "branch-a",
		Lines:    []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, repo, shirtM))

	res, err := uc.ApplyReturn(ctx, &dto.ReturnInput{
		BranchID: "branch-a",
		Kind:     model.ReturnGarmentExchange,
		Lines: []model.ReturnLine{{
			GarmentID: "shirt", SizeID: "m", Quantity: 4,
			ReplacementGarmentID: "pants", ReplacementSizeID: "l", ReplacementQuantity: 2,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, stockOf(t, repo, shirtM))
	assert.Equal(t, 18, stockOf(t, repo, pantsL))
	require.Len(t, res.Results, 2)
	assert.Equal(t, model.MovementExchange, res.Results[1].MovementType)
	assert.Equal(t, 0, res.Results[1].Line)
}

func TestApplyReturn_ExchangeWithMissingReplacementRowStillRestores(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 6, 0)

	res, err := uc.ApplyReturn(context.Background(), &dto.ReturnInput{
		BranchID: "branch-a",
		Kind:     model.ReturnSizeExchange,
		Lines: []model.ReturnLine{{
			GarmentID: "shirt", SizeID: "m", Quantity: 1,
			ReplacementGarmentID: "shirt", ReplacementSizeID: "xl", ReplacementQuantity: 1,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, stockOf(t, repo, shirtM))
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Skipped)
}

func TestAdjustStock(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 1, 0)

	mv, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{Key: shirtM, QuantityChange: 9, Reason: "count"})
	require.NoError(t, err)
	assert.Equal(t, 1, mv.QuantityBefore)
	assert.Equal(t, 10, mv.QuantityAfter)
	assert.Equal(t, model.MovementAdjustment, mv.MovementType)

	_, err = uc.AdjustStock(context.Background(), &dto.AdjustStockInput{Key: pantsL, QuantityChange: 1})
	assert.ErrorIs(t, err, stock.ErrCostNotFound)
}

func TestPriceCost_CreatesThenUpdates(t *testing.T) {
	uc, repo := newTestUseCase()
	ctx := context.Background()

	created, err := uc.PriceCost(ctx, &dto.PriceCostInput{
		Key:            shirtM,
		MinStock:       3,
		WholesalePrice: decimal.RequireFromString("80.50"),
		RetailPrice:    decimal.RequireFromString("120"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Stock)
	assert.Equal(t, 0, stockOf(t, repo, shirtM))

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{Key: shirtM, QuantityChange: 5})
	require.NoError(t, err)

	updated, err := uc.PriceCost(ctx, &dto.PriceCostInput{
		Key:         shirtM,
		MinStock:    6,
		RetailPrice: decimal.RequireFromString("125"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, updated.Stock)

	low, total, err := uc.ListLowStock(ctx, "branch-a", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.True(t, low[0].RetailPrice.Equal(decimal.NewFromInt(125)))
}

// racingRepo hides the cost row from the first lookup, as if another request
// inserted it between the lookup and the insert.
type racingRepo struct {
	*repository.MemoryRepository
	lookups int
}

func (r *racingRepo) GetCost(ctx context.Context, key model.StockKey) (*model.Cost, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, nil
	}
	return r.MemoryRepository.GetCost(ctx, key)
}

func TestPriceCost_ConcurrentCreateFallsBackToUpdate(t *testing.T) {
	mem := repository.NewMemoryRepository()
	mem.Seed(shirtM, 4, 1)
	repo := &racingRepo{MemoryRepository: mem}
	uc := NewStockUseCase(repo, logger.NewNop())

	cost, err := uc.PriceCost(context.Background(), &dto.PriceCostInput{
		Key:         shirtM,
		MinStock:    2,
		RetailPrice: decimal.RequireFromString("99.90"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lookups)
	assert.Equal(t, 4, cost.Stock)

	stored, err := mem.GetCost(context.Background(), shirtM)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MinStock)
	assert.True(t, stored.RetailPrice.Equal(decimal.RequireFromString("99.90")))
	assert.Equal(t, 4, stockOf(t, mem, shirtM))
}

func TestGetStock_NotFound(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.GetStock(context.Background(), shirtM)
	assert.ErrorIs(t, err, stock.ErrCostNotFound)
}

func TestListMovements_FiltersByReference(t *testing.T) {
	uc, repo := newTestUseCase()
	repo.Seed(shirtM, 10, 0)
	ctx := context.Background()

	for _, id := range []string{"order-1", "order-2"} {
		_, err := uc.ApplySale(ctx, &dto.SaleInput{
			BranchID: "branch-a",
			OrderID:  id,
			Lines:    []dto.LineInput{{GarmentID: "shirt", SizeID: "m", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	mvs, total, err := uc.ListMovements(ctx, &dto.MovementFilters{ReferenceID: "order-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 9, mvs[0].QuantityBefore)
}
