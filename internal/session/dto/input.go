package dto

// UpdateSessionInput carries the fields to change; nil means unchanged.
type UpdateSessionInput struct {
	Token    string  `json:"-"`
	UserID   *string `json:"user_id"`
	BranchID *string `json:"branch_id"`
	Theme    *string `json:"theme"`
	Locale   *string `json:"locale"`
}

type Defaults struct {
	Theme  string
	Locale string
}
