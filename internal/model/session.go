package model

import "time"

// SessionState is the per-user application state kept between requests.
type SessionState struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	BranchID  string    `json:"branch_id"`
	Theme     string    `json:"theme"`
	Locale    string    `json:"locale"`
	UpdatedAt time.Time `json:"updated_at"`
}
