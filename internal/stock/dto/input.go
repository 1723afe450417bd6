package dto

import (
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/shopspring/decimal"
)

type LineInput struct {
	GarmentID string `json:"garment_id"`
	SizeID    string `json:"size_id"`
	Quantity  int    `json:"quantity"`
}

// SaleInput drives both sales and order cancellations.
type SaleInput struct {
	BranchID string      `json:"branch_id"`
	OrderID  string      `json:"order_id"`
	Lines    []LineInput `json:"lines"`
	Atomic   bool        `json:"atomic"`
	UserID   string      `json:"-"`
}

type ReturnInput struct {
	BranchID string             `json:"branch_id"`
	ReturnID string             `json:"return_id"`
	OrderID  string             `json:"order_id"`
	Kind     model.ReturnKind   `json:"kind"`
	Lines    []model.ReturnLine `json:"lines"`
	Atomic   bool               `json:"atomic"`
	UserID   string             `json:"-"`
}

type AdjustStockInput struct {
	Key            model.StockKey
	QuantityChange int
	Reason         string
	UserID         string
}

type PriceCostInput struct {
	Key            model.StockKey
	MinStock       int
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
}
