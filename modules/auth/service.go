package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/volunhub/volunhub/pkg/email"
	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/logger"
	"github.com/volunhub/volunhub/pkg/sanitizer"
	"github.com/volunhub/volunhub/pkg/session"
)

// dummyHash is compared against when login hits an unknown email, so the
// request costs a bcrypt verification either way.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Service implements signup, email verification, and session login.
type Service struct {
	cfg        Config
	storage    Storage
	mailer     email.EmailSender
	sessionMgr *session.Manager
	log        *slog.Logger

	issueCode func(length int) (string, error)
	now       func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger sets the logger used for non-fatal delivery failures.
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

// WithCodeGenerator overrides verification code generation. Used in tests.
func WithCodeGenerator(gen func(length int) (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.issueCode = gen
		}
	}
}

// NewService creates the auth service.
func NewService(cfg Config, storage Storage, mailer email.EmailSender, sessionMgr *session.Manager, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		storage:    storage,
		mailer:     mailer,
		sessionMgr: sessionMgr,
		log:        slog.Default(),
		issueCode:  generateCode,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries validated, unsanitized signup input.
type RegisterParams struct {
	Name           string
	Username       string
	Email          string
	Password       string
	PhoneNumber    string
	DateOfBirth    time.Time
	Gender         string
	Institution    string
	EducationLevel string
	Address        string
	Location       *geo.Point
	UserType       string
}

// Register creates a pending account and emails its verification code.
// Email delivery failure does not fail registration; the holder can request
// a new code. Returns ErrAlreadyExists when the email or username is taken.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	code, err := s.issueCode(s.cfg.CodeLength)
	if err != nil {
		return nil, err
	}

	userType := params.UserType
	if userType == "" {
		userType = UserTypeVolunteer
	}

	now := s.now().UTC()
	account := &Account{
		ID:           uuid.New(),
		Name:         sanitizer.TrimText(params.Name),
		Username:     sanitizer.NormalizeUsername(params.Username),
		Email:        sanitizer.NormalizeEmail(params.Email),
		PasswordHash: string(hash),

		PhoneNumber:    sanitizer.NormalizePhone(params.PhoneNumber),
		DateOfBirth:    params.DateOfBirth,
		Gender:         params.Gender,
		Institution:    sanitizer.TrimText(params.Institution),
		EducationLevel: sanitizer.TrimText(params.EducationLevel),
		Address:        sanitizer.TrimText(params.Address),
		Location:       params.Location,

		UserType: userType,
		Status:   StatusPending.Name(),

		VerificationCode: code,
		CodeExpiresAt:    now.Add(s.cfg.CodeTTL),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Create(ctx, account); err != nil {
		return nil, err
	}

	if err := s.sendVerificationEmail(ctx, account); err != nil {
		// The account exists either way; a fresh code can be requested.
		s.log.WarnContext(ctx, "verification email not sent",
			logger.Error(err), logger.Email(account.Email))
	}

	return account, nil
}

// VerifyCode checks the emailed code and moves the account to verified.
// Checks run in a fixed order so the caller gets the most specific error:
// unknown email, already verified, no code on record, wrong code, expired
// code.
func (s *Service) VerifyCode(ctx context.Context, emailAddr, code string) (*Account, error) {
	account, err := s.storage.GetByEmail(ctx, sanitizer.NormalizeEmail(emailAddr))
	if err != nil {
		return nil, err
	}
	if account.IsVerified() {
		return nil, ErrAlreadyVerified
	}
	if account.VerificationCode == "" {
		return nil, ErrNoCode
	}
	if subtle.ConstantTimeCompare([]byte(account.VerificationCode), []byte(code)) != 1 {
		return nil, ErrInvalidCode
	}
	// The expiry instant itself is already expired.
	if !account.CodeExpiresAt.After(s.now()) {
		return nil, ErrCodeExpired
	}

	if err := account.markVerified(ctx); err != nil {
		return nil, err
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.storage.Update(ctx, account); err != nil {
		return nil, err
	}

	if err := s.sendWelcomeEmail(ctx, account); err != nil {
		s.log.WarnContext(ctx, "welcome email not sent",
			logger.Error(err), logger.Email(account.Email))
	}

	return account, nil
}

// ResendCode issues a fresh verification code and emails it. Unlike
// Register, delivery failure is fatal here since a new code is the whole
// point of the call.
func (s *Service) ResendCode(ctx context.Context, emailAddr string) error {
	account, err := s.storage.GetByEmail(ctx, sanitizer.NormalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if account.IsVerified() {
		return ErrAlreadyVerified
	}

	code, err := s.issueCode(s.cfg.CodeLength)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	account.VerificationCode = code
	account.CodeExpiresAt = now.Add(s.cfg.CodeTTL)
	account.UpdatedAt = now

	if err := s.storage.Update(ctx, account); err != nil {
		return err
	}

	if err := s.sendVerificationEmail(ctx, account); err != nil {
		return errors.Join(ErrSendEmail, err)
	}
	return nil
}

// Login verifies credentials and opens a session, setting the session
// cookie on w. Unknown emails and wrong passwords both return
// ErrInvalidCredentials; unverified accounts with a correct password get
// ErrNotVerified.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, emailAddr, password string) (*Account, error) {
	account, err := s.storage.GetByEmail(ctx, sanitizer.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsVerified() {
		return nil, ErrNotVerified
	}

	if _, err := s.sessionMgr.Authenticate(ctx, w, account.ID, account.UserType); err != nil {
		return nil, err
	}
	return account, nil
}

// Logout closes the request's session and clears the cookie. Logging out
// without a session succeeds.
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return s.sessionMgr.Destroy(ctx, w, r)
}

func (s *Service) sendVerificationEmail(ctx context.Context, account *Account) error {
	body, err := renderVerificationEmail(account.Name, account.VerificationCode, s.cfg.CodeTTL.String())
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   account.Email,
		Subject:  verificationSubject,
		BodyHTML: body,
		Tag:      tagSignupCode,
	})
}

func (s *Service) sendWelcomeEmail(ctx context.Context, account *Account) error {
	body, err := renderWelcomeEmail(account.Name, account.IsOrganisation())
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   account.Email,
		Subject:  welcomeSubject,
		BodyHTML: body,
		Tag:      tagSignupSuccess,
	})
}
