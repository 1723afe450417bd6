package requirement

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
)

type UseCase interface {
	// ComputeRequirements totals the supplies needed by every open order,
	// sorted by quantity needed, largest first.
	ComputeRequirements(ctx context.Context) ([]model.SupplyRequirement, error)
	// Invalidate drops any cached report.
	Invalidate(ctx context.Context)
}
