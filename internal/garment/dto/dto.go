package dto

type GarmentFilters struct {
	IsActive    *bool  `json:"is_active"`
	SearchQuery string `json:"search_query"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}
