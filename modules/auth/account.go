package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/statemachine"
)

// Account statuses. A new account starts pending and becomes verified
// exactly once, when its holder confirms the emailed code.
var (
	StatusPending  = statemachine.StringState("pending")
	StatusVerified = statemachine.StringState("verified")

	eventVerify = statemachine.StringEvent("verify")
)

// Account types. Organisations can create projects; volunteers join them.
const (
	UserTypeVolunteer    = "volunteer"
	UserTypeOrganisation = "organisation"
)

// Genders accepted at signup.
var Genders = []string{"male", "female", "other"}

// Account is a registered user, volunteer or organisation.
type Account struct {
	ID           uuid.UUID
	Name         string
	Username     string
	Email        string
	PasswordHash string

	PhoneNumber    string
	DateOfBirth    time.Time
	Gender         string
	Institution    string
	EducationLevel string
	Address        string
	Location       *geo.Point

	UserType string
	Status   string

	// Verification code state. Both fields are set together when a code
	// is issued and cleared together when the account verifies.
	VerificationCode string
	CodeExpiresAt    time.Time

	TotalHoursVolunteered float64
	TotalProjectsJoined   int
	ImpactScore           float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVerified reports whether the account completed email verification.
func (a *Account) IsVerified() bool {
	return a.Status == StatusVerified.Name()
}

// IsOrganisation reports whether the account is an organisation account.
func (a *Account) IsOrganisation() bool {
	return a.UserType == UserTypeOrganisation
}

// lifecycle builds the account status machine positioned at the current
// status. The only transition is pending to verified.
func (a *Account) lifecycle() *statemachine.SimpleStateMachine {
	sm := statemachine.NewSimpleStateMachine(statemachine.StringState(a.Status))
	_ = sm.AddTransition(StatusPending, StatusVerified, eventVerify, nil, nil)
	return sm
}

// markVerified moves the account to verified and clears the code state.
// Returns ErrAlreadyVerified when the transition is not available.
func (a *Account) markVerified(ctx context.Context) error {
	sm := a.lifecycle()
	if err := sm.Fire(ctx, eventVerify, a); err != nil {
		return ErrAlreadyVerified
	}
	a.Status = sm.Current().Name()
	a.VerificationCode = ""
	a.CodeExpiresAt = time.Time{}
	return nil
}
