package model

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderDelivered OrderStatus = "delivered"
	OrderSettled   OrderStatus = "settled"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	BaseModel
	CustomerID string          `db:"customer_id" json:"customer_id"`
	BranchID   string          `db:"branch_id" json:"branch_id"`
	Status     OrderStatus     `db:"status" json:"status"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Lines      []OrderLine     `db:"-" json:"lines"`
}

type OrderLine struct {
	ID              string          `db:"id" json:"id"`
	OrderID         string          `db:"order_id" json:"order_id"`
	GarmentID       string          `db:"garment_id" json:"garment_id"`
	SizeID          string          `db:"size_id" json:"size_id"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	PendingQuantity int             `db:"pending_quantity" json:"pending_quantity"`
}

type ReturnKind string

const (
	ReturnFull            ReturnKind = "full"
	ReturnPartial         ReturnKind = "partial"
	ReturnSizeExchange    ReturnKind = "size_exchange"
	ReturnGarmentExchange ReturnKind = "garment_exchange"
)

// IsExchange reports whether the kind hands out a replacement garment.
func (k ReturnKind) IsExchange() bool {
	return k == ReturnSizeExchange || k == ReturnGarmentExchange
}

type Return struct {
	ID      string       `json:"id"`
	OrderID string       `json:"order_id"`
	Kind    ReturnKind   `json:"kind"`
	Lines   []ReturnLine `json:"lines"`
}

type ReturnLine struct {
	GarmentID string `json:"garment_id"`
	SizeID    string `json:"size_id"`
	Quantity  int    `json:"quantity"`

	ReplacementGarmentID string `json:"replacement_garment_id,omitempty"`
	ReplacementSizeID    string `json:"replacement_size_id,omitempty"`
	ReplacementQuantity  int    `json:"replacement_quantity,omitempty"`
}

// HasReplacement reports whether the line carries a replacement item.
func (l ReturnLine) HasReplacement() bool {
	return l.ReplacementGarmentID != "" && l.ReplacementSizeID != "" && l.ReplacementQuantity > 0
}
