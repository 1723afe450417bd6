package dto

type CreateSizeInput struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

type UpdateSizeInput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}
