package auth

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the account persistence operations the auth service
// needs. Implementations must return ErrNotFound for missing accounts and
// ErrAlreadyExists on unique constraint violations.
type Storage interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Update(ctx context.Context, account *Account) error
}
