package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifies one Cost row.
type StockKey struct {
	GarmentID string `db:"garment_id" json:"garment_id"`
	SizeID    string `db:"size_id" json:"size_id"`
	BranchID  string `db:"branch_id" json:"branch_id"`
}

// Cost is the stock and price record of a garment/size/branch combination.
// Stock is the running sum of every adjustment and may go negative.
type Cost struct {
	ID string `db:"id" json:"id"`
	StockKey
	Stock          int             `db:"stock" json:"stock"`
	MinStock       int             `db:"min_stock" json:"min_stock"`
	WholesalePrice decimal.Decimal `db:"wholesale_price" json:"wholesale_price"`
	RetailPrice    decimal.Decimal `db:"retail_price" json:"retail_price"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

const (
	MovementSale         = "sale"
	MovementReturn       = "return"
	MovementExchange     = "exchange"
	MovementCancellation = "cancellation"
	MovementAdjustment   = "adjustment"
)

type StockMovement struct {
	ID string `db:"id" json:"id"`
	StockKey
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StockAdjustment is one signed delta against a Cost row together with the
// movement that records it.
type StockAdjustment struct {
	Key           StockKey
	Delta         int
	MovementType  string
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedBy     string
}
