package dto

import (
	"time"

	"github.com/hagwonlab/hagwon-api/internal/models"
)

// LoginRequest carries user credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a principal.
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	RoleLevel string `json:"role_level"`
}

// NewUserResponse maps a user model to its public view.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		RoleLevel: user.RoleLevel,
	}
}

// LoginResponse carries the issued token and its subject.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
