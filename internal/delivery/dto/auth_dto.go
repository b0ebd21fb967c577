package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateUserRequest is used by admins to open a dashboard account
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Contact  string `json:"contact" validate:"omitempty,max=50"`
	RoleID   int    `json:"role_id" validate:"required,min=1,max=7"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Contact  string `json:"contact" validate:"omitempty,max=50"`
	RoleID   int    `json:"role_id" validate:"required,min=1,max=7"`
	IsActive *bool  `json:"is_active"`
	// Password is only changed when set
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RoleResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Contact   string    `json:"contact,omitempty"`
	RoleID    int       `json:"role_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
