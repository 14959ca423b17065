package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SignUpRequest payload for new users.
type SignUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

// SignInRequest payload for login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse represents a user profile.
type ProfileResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  *string     `json:"full_name,omitempty"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// UpdateRoleRequest payload for admin role changes.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
