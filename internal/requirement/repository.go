package requirement

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
)

type Repository interface {
	ListOrderIDsByStatus(ctx context.Context, status model.OrderStatus) ([]string, error)
	ListLinesByOrders(ctx context.Context, orderIDs []string) ([]model.OrderLine, error)
	// GetBillOfMaterials returns the entries of one garment/size joined with
	// their supply and unit of measure. No entries is not an error.
	GetBillOfMaterials(ctx context.Context, garmentID, sizeID string) ([]model.BillOfMaterialsEntry, error)
}
