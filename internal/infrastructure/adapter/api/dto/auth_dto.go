package dto

import (
	"time"

	"github.com/amirhossein-jamali/class-booking/internal/domain/entity"
)

// RegisterRequest represents the API request for a local sign-up.
// Missing fields are reported by the identity use case.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the API request for a local login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user, it never carries the password hash
type UserResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a user to its public view
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(entity.ParseRole(string(user.Role))),
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse represents the API response for a successful login
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
