package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	costColumns     = `id, garment_id, size_id, branch_id, stock, min_stock, wholesale_price, retail_price, updated_at`
	movementColumns = `id, garment_id, size_id, branch_id, movement_type, quantity_change, quantity_before, quantity_after, reference_type, reference_id, notes, created_by, created_at`
)

type SQLRepository struct {
	DB  *sqlx.DB
	now func() time.Time
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db, now: time.Now}
}

func (r *SQLRepository) GetCost(ctx context.Context, key model.StockKey) (*model.Cost, error) {
	var cost model.Cost
	query := r.DB.Rebind(`SELECT ` + costColumns + ` FROM costs WHERE garment_id = ? AND size_id = ? AND branch_id = ?`)

	err := r.DB.GetContext(ctx, &cost, query, key.GarmentID, key.SizeID, key.BranchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cost, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CostFilters) ([]model.Cost, int, error) {
	var items []model.Cost

	conditions := []string{}
	args := map[string]interface{}{}

	if f.BranchID != "" {
		conditions = append(conditions, "branch_id = :branch_id")
		args["branch_id"] = f.BranchID
	}
	if f.GarmentID != "" {
		conditions = append(conditions, "garment_id = :garment_id")
		args["garment_id"] = f.GarmentID
	}
	if f.SizeID != "" {
		conditions = append(conditions, "size_id = :size_id")
		args["size_id"] = f.SizeID
	}
	if f.LowStock {
		conditions = append(conditions, "stock <= min_stock")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := r.count(ctx, "SELECT count(*) FROM costs"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT " + costColumns + " FROM costs" + whereClause + " ORDER BY updated_at DESC"
	query += pagination(f.Page, f.PageSize)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *SQLRepository) CreateCost(ctx context.Context, c *model.Cost) error {
	query := `
        INSERT INTO costs (
            id, garment_id, size_id, branch_id, stock, min_stock,
            wholesale_price, retail_price, updated_at
        )
        VALUES (
            :id, :garment_id, :size_id, :branch_id, :stock, :min_stock,
            :wholesale_price, :retail_price, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	if isUniqueViolation(err) {
		return stock.ErrCostExists
	}
	return err
}

// isUniqueViolation reports a clash on the (garment_id, size_id, branch_id) key.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// UpdatePrice never touches stock; stock only moves through ApplyAdjustments.
func (r *SQLRepository) UpdatePrice(ctx context.Context, c *model.Cost) error {
	query := `
        UPDATE costs
        SET min_stock = :min_stock,
            wholesale_price = :wholesale_price,
            retail_price = :retail_price,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) ApplyAdjustments(ctx context.Context, adjustments []model.StockAdjustment) ([]model.StockMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lockQuery := tx.Rebind(`SELECT id, stock FROM costs WHERE garment_id = ? AND size_id = ? AND branch_id = ? FOR UPDATE`)
	updateQuery := tx.Rebind(`UPDATE costs SET stock = stock + ?, updated_at = ? WHERE id = ?`)
	insertLogQuery := `
        INSERT INTO stock_movements (
            id, garment_id, size_id, branch_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :garment_id, :size_id, :branch_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `

	movements := make([]model.StockMovement, 0, len(adjustments))
	for i, adj := range adjustments {
		// 1. Lock the row so concurrent adjustments on the same key serialize
		var row struct {
			ID    string `db:"id"`
			Stock int    `db:"stock"`
		}
		err := tx.GetContext(ctx, &row, lockQuery, adj.Key.GarmentID, adj.Key.SizeID, adj.Key.BranchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, &stock.AdjustmentError{Index: i, Err: stock.ErrCostNotFound}
			}
			return nil, &stock.AdjustmentError{Index: i, Err: fmt.Errorf("failed to lock cost: %w", err)}
		}

		now := r.now()

		// 2. Relative update
		if _, err := tx.ExecContext(ctx, updateQuery, adj.Delta, now, row.ID); err != nil {
			return nil, &stock.AdjustmentError{Index: i, Err: fmt.Errorf("failed to update stock: %w", err)}
		}

		// 3. Log Movement
		m := model.StockMovement{
			ID:             uuid.New().String(),
			StockKey:       adj.Key,
			MovementType:   adj.MovementType,
			QuantityChange: adj.Delta,
			QuantityBefore: row.Stock,
			QuantityAfter:  row.Stock + adj.Delta,
			ReferenceType:  optional(adj.ReferenceType),
			ReferenceID:    optional(adj.ReferenceID),
			Notes:          adj.Notes,
			CreatedBy:      optional(adj.CreatedBy),
			CreatedAt:      now,
		}
		if _, err := tx.NamedExecContext(ctx, insertLogQuery, &m); err != nil {
			return nil, &stock.AdjustmentError{Index: i, Err: fmt.Errorf("failed to log movement: %w", err)}
		}
		movements = append(movements, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement

	conditions := []string{}
	args := map[string]interface{}{}

	if f.BranchID != "" {
		conditions = append(conditions, "branch_id = :branch_id")
		args["branch_id"] = f.BranchID
	}
	if f.GarmentID != "" {
		conditions = append(conditions, "garment_id = :garment_id")
		args["garment_id"] = f.GarmentID
	}
	if f.SizeID != "" {
		conditions = append(conditions, "size_id = :size_id")
		args["size_id"] = f.SizeID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	count, err := r.count(ctx, "SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT " + movementColumns + " FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	query += pagination(f.Page, f.PageSize)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *SQLRepository) count(ctx context.Context, query string, args map[string]interface{}) (int, error) {
	var count int
	rows, err := r.DB.NamedQueryContext(ctx, query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}

func pagination(page, pageSize int) string {
	if pageSize <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
