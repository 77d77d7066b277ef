package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           string    `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Picture      *string   `json:"picture,omitempty" db:"picture"`
	PasswordHash *string   `json:"-" db:"password_hash"` // nil for OAuth-only accounts
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the public view of a user returned by the auth endpoints
type UserSummary struct {
	ID      string  `json:"user_id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
	IsAdmin bool    `json:"is_admin"`
}

// Summary returns the public view of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.Picture,
		IsAdmin: u.IsAdmin,
	}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionExchangeRequest is the body of POST /auth/session
type SessionExchangeRequest struct {
	SessionID string `json:"session_id"`
}

// AuthResponse carries a freshly issued token and the user it belongs to
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}
