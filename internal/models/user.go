package models

import (
	"time"
)

// UserRole is the account-level role chosen at registration. Roles on a
// mentorship request (mentee/mentor) are fixed per request, not per account.
type UserRole string

const (
	RoleMentee UserRole = "mentee"
	RoleMentor UserRole = "mentor"
)

// User represents an account
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterPayload is the body for POST /auth/register. Role defaults to
// mentee when omitted.
type RegisterPayload struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role" binding:"omitempty,oneof=mentor mentee"`
}

// LoginPayload is the body for POST /auth/login
type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthUser is the user object returned by auth endpoints
type AuthUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is the response for register/login/refresh
type AuthResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"accessToken"`
	User        *AuthUser `json:"user,omitempty"`
}

// PublicUser converts a User to its API projection
func (u *User) PublicUser() *AuthUser {
	return &AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
