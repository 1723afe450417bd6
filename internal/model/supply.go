package model

import "github.com/shopspring/decimal"

type Supply struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Code           string `db:"code" json:"code"`
	PresentationID string `db:"presentation_id" json:"presentation_id"`
}

// BillOfMaterialsEntry is one supply consumed per unit of a garment/size,
// already joined with the supply and its unit of measure.
type BillOfMaterialsEntry struct {
	GarmentID       string          `db:"garment_id" json:"garment_id"`
	SizeID          string          `db:"size_id" json:"size_id"`
	SupplyID        string          `db:"supply_id" json:"supply_id"`
	SupplyName      string          `db:"supply_name" json:"supply_name"`
	SupplyCode      string          `db:"supply_code" json:"supply_code"`
	UnitName        string          `db:"unit_name" json:"unit_name"`
	QuantityPerUnit decimal.Decimal `db:"quantity_per_unit" json:"quantity_per_unit"`
}

type SupplyRequirement struct {
	SupplyID       string          `json:"supply_id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	UnitName       string          `json:"unit_name"`
}
