package models

import "time"

// Session is a server-side record for an opaque token issued after an
// external provider sign-in. Password logins use signed tokens instead.
type Session struct {
	Token     string    `json:"session_token" db:"session_token"`
	UserID    string    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
// Both sides are compared in UTC.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.UTC().Before(now.UTC())
}
