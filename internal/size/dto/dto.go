package dto

type SizeFilters struct {
	IsActive *bool `json:"is_active"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
