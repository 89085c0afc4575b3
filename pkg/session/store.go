package session

import "context"

// Store defines the interface for session persistence.
type Store interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by token
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes all sessions for a specific user
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes all expired sessions
	DeleteExpired(ctx context.Context) error
}
