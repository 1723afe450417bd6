package repository

import (
	"context"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) ListOrderIDsByStatus(ctx context.Context, status model.OrderStatus) ([]string, error) {
	ids := []string{}
	query := r.DB.Rebind(`SELECT id FROM orders WHERE status = ? ORDER BY created_at`)
	err := r.DB.SelectContext(ctx, &ids, query, string(status))
	return ids, err
}

func (r *SQLRepository) ListLinesByOrders(ctx context.Context, orderIDs []string) ([]model.OrderLine, error) {
	if len(orderIDs) == 0 {
		return []model.OrderLine{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, order_id, garment_id, size_id, quantity, unit_price, subtotal, pending_quantity
        FROM order_lines
        WHERE order_id IN (?)
    `, orderIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	lines := []model.OrderLine{}
	err = r.DB.SelectContext(ctx, &lines, query, args...)
	return lines, err
}

// GetBillOfMaterials flattens the supply and presentation relations into one
// row per entry, so callers never see nested relation shapes.
func (r *SQLRepository) GetBillOfMaterials(ctx context.Context, garmentID, sizeID string) ([]model.BillOfMaterialsEntry, error) {
	query := r.DB.Rebind(`
        SELECT b.garment_id, b.size_id, b.supply_id,
               s.name AS supply_name,
               s.code AS supply_code,
               COALESCE(p.name, '') AS unit_name,
               b.quantity_per_unit
        FROM bill_of_materials b
        JOIN supplies s ON s.id = b.supply_id
        LEFT JOIN presentations p ON p.id = s.presentation_id
        WHERE b.garment_id = ? AND b.size_id = ?
    `)

	entries := []model.BillOfMaterialsEntry{}
	err := r.DB.SelectContext(ctx, &entries, query, garmentID, sizeID)
	return entries, err
}
