package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/requirement"
	"go.uber.org/zap"
)

const (
	cacheKey = "requirements:open"
	cacheTTL = 5 * time.Minute
)

type requirementUseCase struct {
	repo   requirement.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

// NewRequirementUseCase builds the report use case. cache may be nil.
func NewRequirementUseCase(repo requirement.Repository, cache *cache.RedisClient, log logger.ZapLogger) requirement.UseCase {
	return &requirementUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *requirementUseCase) ComputeRequirements(ctx context.Context) ([]model.SupplyRequirement, error) {
	if cached, ok := uc.fromCache(ctx); ok {
		return cached, nil
	}

	// 1. Open orders
	orderIDs, err := uc.repo.ListOrderIDsByStatus(ctx, model.OrderOpen)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	if len(orderIDs) == 0 {
		return []model.SupplyRequirement{}, nil
	}

	// 2. Their lines
	lines, err := uc.repo.ListLinesByOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	if len(lines) == 0 {
		return []model.SupplyRequirement{}, nil
	}

	// 3. Bill of materials, fetched once per garment/size
	boms := make(map[requirement.Pair][]model.BillOfMaterialsEntry)
	for _, line := range lines {
		pair := requirement.Pair{GarmentID: line.GarmentID, SizeID: line.SizeID}
		if _, ok := boms[pair]; ok {
			continue
		}
		entries, err := uc.repo.GetBillOfMaterials(ctx, pair.GarmentID, pair.SizeID)
		if err != nil {
			return nil, fmt.Errorf("bill of materials for %s/%s: %w", pair.GarmentID, pair.SizeID, err)
		}
		boms[pair] = entries
	}

	// 4-5. Sum and sort
	result := requirement.Aggregate(lines, boms)
	uc.toCache(ctx, result)
	return result, nil
}

func (uc *requirementUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, cacheKey); err != nil {
		uc.logger.Warn("failed to invalidate requirements cache", zap.Error(err))
	}
}

func (uc *requirementUseCase) fromCache(ctx context.Context) ([]model.SupplyRequirement, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var result []model.SupplyRequirement
	if err := uc.cache.GetJSON(ctx, cacheKey, &result); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("requirements cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return result, true
}

func (uc *requirementUseCase) toCache(ctx context.Context, result []model.SupplyRequirement) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetJSON(ctx, cacheKey, result, cacheTTL); err != nil {
		uc.logger.Warn("requirements cache write failed", zap.Error(err))
	}
}
