package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/stock"
	"github.com/fekuna/omnipos-uniform-service/internal/stock/dto"
	"github.com/google/uuid"
)

// MemoryRepository is an in-process stock.Repository with the same batch
// semantics as the SQL one. Failures can be injected per key.
type MemoryRepository struct {
	mu        sync.Mutex
	costs     map[model.StockKey]*model.Cost
	movements []model.StockMovement
	failures  map[model.StockKey]error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		costs:    make(map[model.StockKey]*model.Cost),
		failures: make(map[model.StockKey]error),
	}
}

// Seed stores a cost row with the given stock.
func (r *MemoryRepository) Seed(key model.StockKey, stockLevel, minStock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.costs[key] = &model.Cost{
		ID:        uuid.New().String(),
		StockKey:  key,
		Stock:     stockLevel,
		MinStock:  minStock,
		UpdatedAt: time.Now(),
	}
}

// FailOn makes every adjustment of key fail with err.
func (r *MemoryRepository) FailOn(key model.StockKey, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[key] = err
}

// Stock returns the current stock of key and whether the row exists.
func (r *MemoryRepository) Stock(key model.StockKey) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.costs[key]
	if !ok {
		return 0, false
	}
	return c.Stock, true
}

func (r *MemoryRepository) GetCost(ctx context.Context, key model.StockKey) (*model.Cost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.costs[key]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.CostFilters) ([]model.Cost, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Cost
	for _, c := range r.costs {
		if f.BranchID != "" && c.BranchID != f.BranchID {
			continue
		}
		if f.GarmentID != "" && c.GarmentID != f.GarmentID {
			continue
		}
		if f.SizeID != "" && c.SizeID != f.SizeID {
			continue
		}
		if f.LowStock && c.Stock > c.MinStock {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *MemoryRepository) CreateCost(ctx context.Context, c *model.Cost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.costs[c.StockKey]; ok {
		return stock.ErrCostExists
	}
	cp := *c
	r.costs[c.StockKey] = &cp
	return nil
}

func (r *MemoryRepository) UpdatePrice(ctx context.Context, c *model.Cost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.costs[c.StockKey]
	if !ok {
		return nil
	}
	existing.MinStock = c.MinStock
	existing.WholesalePrice = c.WholesalePrice
	existing.RetailPrice = c.RetailPrice
	existing.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *MemoryRepository) ApplyAdjustments(ctx context.Context, adjustments []model.StockAdjustment) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Work on a scratch copy so a failure leaves nothing behind.
	pending := make(map[model.StockKey]int)
	movements := make([]model.StockMovement, 0, len(adjustments))
	for i, adj := range adjustments {
		if err, ok := r.failures[adj.Key]; ok {
			return nil, &stock.AdjustmentError{Index: i, Err: err}
		}
		c, ok := r.costs[adj.Key]
		if !ok {
			return nil, &stock.AdjustmentError{Index: i, Err: stock.ErrCostNotFound}
		}
		before, seen := pending[adj.Key]
		if !seen {
			before = c.Stock
		}
		pending[adj.Key] = before + adj.Delta

		movements = append(movements, model.StockMovement{
			ID:             uuid.New().String(),
			StockKey:       adj.Key,
			MovementType:   adj.MovementType,
			QuantityChange: adj.Delta,
			QuantityBefore: before,
			QuantityAfter:  before + adj.Delta,
			ReferenceType:  optional(adj.ReferenceType),
			ReferenceID:    optional(adj.ReferenceID),
			Notes:          adj.Notes,
			CreatedBy:      optional(adj.CreatedBy),
			CreatedAt:      time.Now(),
		})
	}

	for key, level := range pending {
		r.costs[key].Stock = level
	}
	r.movements = append(r.movements, movements...)
	return movements, nil
}

func (r *MemoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if f.BranchID != "" && m.BranchID != f.BranchID {
			continue
		}
		if f.GarmentID != "" && m.GarmentID != f.GarmentID {
			continue
		}
		if f.SizeID != "" && m.SizeID != f.SizeID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.ReferenceID != "" && (m.ReferenceID == nil || *m.ReferenceID != f.ReferenceID) {
			continue
		}
		out = append(out, m)
	}
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
