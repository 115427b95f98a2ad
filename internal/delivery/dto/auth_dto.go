package dto

// Response DTOs

// CurrentUserResponse describes the caller resolved from the bearer token
type CurrentUserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
