// Package session issues and validates server-side login sessions. A session
// is created at login, carried by an encrypted cookie, and persisted through
// a pluggable Store so restarts do not log everyone out.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated login session.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	UserType  string    `json:"user_type"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session for the given user valid for ttl from now.
func NewSession(token string, userID uuid.UUID, userType string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		UserType:  userType,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}
