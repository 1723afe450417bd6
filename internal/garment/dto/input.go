package dto

type CreateGarmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateGarmentInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
