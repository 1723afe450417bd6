package dto

type CostFilters struct {
	BranchID  string
	GarmentID string
	SizeID    string
	LowStock  bool // stock <= min_stock
	Page      int
	PageSize  int
}

type MovementFilters struct {
	BranchID     string
	GarmentID    string
	SizeID       string
	MovementType string
	ReferenceID  string
	Page         int
	PageSize     int
}
