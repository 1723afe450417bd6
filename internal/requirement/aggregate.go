package requirement

import (
	"sort"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/shopspring/decimal"
)

// Pair identifies a garment in a given size.
type Pair struct {
	GarmentID string
	SizeID    string
}

// Aggregate expands each line through its bill of materials and sums
// quantityPerUnit × lineQuantity per supply. Lines without entries add
// nothing. The result is sorted by quantity descending, then name and id so
// equal totals come out in a stable order.
func Aggregate(lines []model.OrderLine, boms map[Pair][]model.BillOfMaterialsEntry) []model.SupplyRequirement {
	totals := make(map[string]*model.SupplyRequirement)
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, entry := range boms[Pair{GarmentID: line.GarmentID, SizeID: line.SizeID}] {
			req, ok := totals[entry.SupplyID]
			if !ok {
				req = &model.SupplyRequirement{
					SupplyID:       entry.SupplyID,
					Name:           entry.SupplyName,
					Code:           entry.SupplyCode,
					UnitName:       entry.UnitName,
					QuantityNeeded: decimal.Zero,
				}
				totals[entry.SupplyID] = req
			}
			req.QuantityNeeded = req.QuantityNeeded.Add(entry.QuantityPerUnit.Mul(qty))
		}
	}

	out := make([]model.SupplyRequirement, 0, len(totals))
	for _, req := range totals {
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].QuantityNeeded.Cmp(out[j].QuantityNeeded); c != 0 {
			return c > 0
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].SupplyID < out[j].SupplyID
	})
	return out
}
