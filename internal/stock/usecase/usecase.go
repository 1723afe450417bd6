package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stockUseCase struct {
	repo   stock.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewStockUseCase(repo stock.Repository, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// plannedAdjustment ties an adjustment to the input line it came from.
type plannedAdjustment struct {
	line int
	adj  model.StockAdjustment
}

func (uc *stockUseCase) ApplySale(ctx context.Context, input *dto.SaleInput) (*dto.BatchResult, error) {
	return uc.applyLines(ctx, input, -1, model.MovementSale, "Order sale")
}

func (uc *stockUseCase) ApplyCancellation(ctx context.Context, input *dto.SaleInput) (*dto.BatchResult, error) {
	return uc.applyLines(ctx, input, 1, model.MovementCancellation, "Order cancelled")
}

func (uc *stockUseCase) applyLines(ctx context.Context, input *dto.SaleInput, sign int, movementType, notes string) (*dto.BatchResult, error) {
	if input.BranchID == "" {
		return nil, stock.ErrMissingBranch
	}
	if len(input.Lines) == 0 {
		return nil, stock.ErrEmptyBatch
	}

	plan := make([]plannedAdjustment, 0, len(input.Lines))
	for i, line := range input.Lines {
		plan = append(plan, plannedAdjustment{
			line: i,
			adj: model.StockAdjustment{
				Key:           model.StockKey{GarmentID: line.GarmentID, SizeID: line.SizeID, BranchID: input.BranchID},
				Delta:         sign * line.Quantity,
				MovementType:  movementType,
				ReferenceType: "order",
				ReferenceID:   input.OrderID,
				Notes:         notes,
				CreatedBy:     input.UserID,
			},
		})
	}

	return uc.execute(ctx, plan, input.Atomic), nil
}

func (uc *stockUseCase) ApplyReturn(ctx context.Context, input *dto.ReturnInput) (*dto.BatchResult, error) {
	if input.BranchID == "" {
		return nil, stock.ErrMissingBranch
	}
	if len(input.Lines) == 0 {
		return nil, stock.ErrEmptyBatch
	}

	plan := make([]plannedAdjustment, 0, len(input.Lines)*2)
	for i, line := range input.Lines {
		plan = append(plan, plannedAdjustment{
			line: i,
			adj: model.StockAdjustment{
				Key:           model.StockKey{GarmentID: line.GarmentID, SizeID: line.SizeID, BranchID: input.BranchID},
				Delta:         line.Quantity,
				MovementType:  model.MovementReturn,
				ReferenceType: "return",
				ReferenceID:   input.ReturnID,
				Notes:         "Returned " + string(input.Kind),
				CreatedBy:     input.UserID,
			},
		})

		if !input.Kind.IsExchange() {
			continue
		}
		if !line.HasReplacement() {
			uc.logger.Warn("exchange return line without replacement, restoring stock only",
				zap.String("return_id", input.ReturnID),
				zap.Int("line", i),
			)
			continue
		}
		plan = append(plan, plannedAdjustment{
			line: i,
			adj: model.StockAdjustment{
				Key:           model.StockKey{GarmentID: line.ReplacementGarmentID, SizeID: line.ReplacementSizeID, BranchID: input.BranchID},
				Delta:         -line.ReplacementQuantity,
				MovementType:  model.MovementExchange,
				ReferenceType: "return",
				ReferenceID:   input.ReturnID,
				Notes:         "Exchange replacement",
				CreatedBy:     input.UserID,
			},
		})
	}

	return uc.execute(ctx, plan, input.Atomic), nil
}

func (uc *stockUseCase) execute(ctx context.Context, plan []plannedAdjustment, atomic bool) *dto.BatchResult {
	if atomic {
		return uc.executeAtomic(ctx, plan)
	}

	result := &dto.BatchResult{}
	for _, p := range plan {
		movements, err := uc.repo.ApplyAdjustments(ctx, []model.StockAdjustment{p.adj})
		r := newResult(p)
		switch {
		case err == nil:
			r.Outcome = dto.OutcomeApplied
			r.StockBefore = movements[0].QuantityBefore
			r.StockAfter = movements[0].QuantityAfter
		case errors.Is(err, stock.ErrCostNotFound):
			r.Outcome = dto.OutcomeSkipped
			r.Error = stock.ErrCostNotFound.Error()
			uc.logger.Warn("cost row not found, skipping stock adjustment",
				zap.String("garment_id", p.adj.Key.GarmentID),
				zap.String("size_id", p.adj.Key.SizeID),
				zap.String("branch_id", p.adj.Key.BranchID),
			)
		default:
			r.Outcome = dto.OutcomeFailed
			r.Error = err.Error()
			uc.logger.Error("failed to apply stock adjustment",
				zap.String("garment_id", p.adj.Key.GarmentID),
				zap.String("size_id", p.adj.Key.SizeID),
				zap.String("branch_id", p.adj.Key.BranchID),
				zap.Error(err),
			)
		}
		result.Add(r)
	}
	return result
}

func (uc *stockUseCase) executeAtomic(ctx context.Context, plan []plannedAdjustment) *dto.BatchResult {
	result := &dto.BatchResult{Atomic: true}

	adjustments := make([]model.StockAdjustment, len(plan))
	for i, p := range plan {
		adjustments[i] = p.adj
	}

	movements, err := uc.repo.ApplyAdjustments(ctx, adjustments)
	if err == nil {
		for i, p := range plan {
			r := newResult(p)
			r.Outcome = dto.OutcomeApplied
			r.StockBefore = movements[i].QuantityBefore
			r.StockAfter = movements[i].QuantityAfter
			result.Add(r)
		}
		return result
	}

	result.RolledBack = true
	failedAt := -1
	var adjErr *stock.AdjustmentError
	if errors.As(err, &adjErr) {
		failedAt = adjErr.Index
	}
	uc.logger.Error("stock batch rolled back", zap.Int("failed_at", failedAt), zap.Error(err))

	for i, p := range plan {
		r := newResult(p)
		r.Outcome = dto.OutcomeFailed
		r.Error = "rolled back"
		if i == failedAt {
			r.Error = err.Error()
			if errors.Is(err, stock.ErrCostNotFound) {
				r.Outcome = dto.OutcomeSkipped
				r.Error = stock.ErrCostNotFound.Error()
			}
		}
		result.Add(r)
	}
	return result
}

func newResult(p plannedAdjustment) dto.AdjustmentResult {
	return dto.AdjustmentResult{
		Line:         p.line,
		Key:          p.adj.Key,
		Delta:        p.adj.Delta,
		MovementType: p.adj.MovementType,
	}
}

func (uc *stockUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.Key.BranchID == "" {
		return nil, stock.ErrMissingBranch
	}

	movements, err := uc.repo.ApplyAdjustments(ctx, []model.StockAdjustment{{
		Key:           input.Key,
		Delta:         input.QuantityChange,
		MovementType:  model.MovementAdjustment,
		ReferenceType: "manual",
		Notes:         input.Reason,
		CreatedBy:     input.UserID,
	}})
	if err != nil {
		return nil, err
	}
	return &movements[0], nil
}

func (uc *stockUseCase) PriceCost(ctx context.Context, input *dto.PriceCostInput) (*model.Cost, error) {
	if input.Key.BranchID == "" {
		return nil, stock.ErrMissingBranch
	}

	cost, err := uc.repo.GetCost(ctx, input.Key)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if cost == nil {
		cost = &model.Cost{
			ID:             uuid.New().String(),
			StockKey:       input.Key,
			Stock:          0,
			MinStock:       input.MinStock,
			WholesalePrice: input.WholesalePrice,
			RetailPrice:    input.RetailPrice,
			UpdatedAt:      now,
		}
		err := uc.repo.CreateCost(ctx, cost)
		if err == nil {
			return cost, nil
		}
		if !errors.Is(err, stock.ErrCostExists) {
			return nil, err
		}
		// created concurrently; price the row that won
		if cost, err = uc.repo.GetCost(ctx, input.Key); err != nil {
			return nil, err
		}
		if cost == nil {
			return nil, stock.ErrCostNotFound
		}
	}

	cost.MinStock = input.MinStock
	cost.WholesalePrice = input.WholesalePrice
	cost.RetailPrice = input.RetailPrice
	cost.UpdatedAt = now
	if err := uc.repo.UpdatePrice(ctx, cost); err != nil {
		return nil, err
	}
	return cost, nil
}

func (uc *stockUseCase) GetStock(ctx context.Context, key model.StockKey) (*model.Cost, error) {
	cost, err := uc.repo.GetCost(ctx, key)
	if err != nil {
		return nil, err
	}
	if cost == nil {
		return nil, stock.ErrCostNotFound
	}
	return cost, nil
}

func (uc *stockUseCase) ListLowStock(ctx context.Context, branchID string, page, pageSize int) ([]model.Cost, int, error) {
	return uc.repo.FindAll(ctx, &dto.CostFilters{
		BranchID: branchID,
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
