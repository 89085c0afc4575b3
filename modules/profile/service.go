// Package profile serves the logged-in account's profile and applies
// partial updates to its mutable fields.
package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/volunhub/volunhub/modules/auth"
	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/sanitizer"
	"github.com/volunhub/volunhub/pkg/session"
)

// Storage is the slice of account persistence the profile service needs.
// Satisfied by auth.MongoStorage.
type Storage interface {
	GetByID(ctx context.Context, id uuid.UUID) (*auth.Account, error)
	Update(ctx context.Context, account *auth.Account) error
}

// Service reads and updates account profiles.
type Service struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates the profile service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Get returns the account for the given session's user.
func (s *Service) Get(ctx context.Context, sess *session.Session) (*auth.Account, error) {
	return s.storage.GetByID(ctx, sess.UserID)
}

// UpdateParams carries the mutable profile fields. Nil fields are left
// unchanged; identity fields (email, username) and verification state
// cannot be changed here.
type UpdateParams struct {
	Name           *string
	PhoneNumber    *string
	Address        *string
	Institution    *string
	EducationLevel *string
	Location       *geo.Point
}

// Update applies the non-nil fields and returns the updated account.
func (s *Service) Update(ctx context.Context, sess *session.Session, params UpdateParams) (*auth.Account, error) {
	account, err := s.storage.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		account.Name = sanitizer.TrimText(*params.Name)
	}
	if params.PhoneNumber != nil {
		account.PhoneNumber = sanitizer.NormalizePhone(*params.PhoneNumber)
	}
	if params.Address != nil {
		account.Address = sanitizer.TrimText(*params.Address)
	}
	if params.Institution != nil {
		account.Institution = sanitizer.TrimText(*params.Institution)
	}
	if params.EducationLevel != nil {
		account.EducationLevel = sanitizer.TrimText(*params.EducationLevel)
	}
	if params.Location != nil {
		account.Location = params.Location
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.storage.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
