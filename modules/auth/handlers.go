package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/volunhub/volunhub/handler"
	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/logger"
	"github.com/volunhub/volunhub/pkg/validator"
)

const dateLayout = "2006-01-02"

// SignupRequest is the POST /signup payload.
type SignupRequest struct {
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	PhoneNumber    string     `json:"phoneNumber"`
	DateOfBirth    string     `json:"dateOfBirth"`
	Gender         string     `json:"gender"`
	Institution    string     `json:"institution"`
	EducationLevel string     `json:"educationLevel"`
	Address        string     `json:"address"`
	Location       *geo.Point `json:"location,omitempty"`
	UserType       string     `json:"userType,omitempty"`
}

// VerifyRequest is the POST/PUT /verify-signup payload. POST carries both
// fields; PUT (resend) only needs the email.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

// LoginRequest is the POST /login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountPayload is the account shape returned to clients. The password
// hash and verification code state never appear here.
type accountPayload struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isVerified"`
	UserType   string `json:"userType"`
}

func toPayload(a *Account) accountPayload {
	return accountPayload{
		UserID:     a.ID.String(),
		Email:      a.Email,
		Username:   a.Username,
		Name:       a.Name,
		IsVerified: a.IsVerified(),
		UserType:   a.UserType,
	}
}

func (s *Service) handleSignup(ctx handler.Context, req SignupRequest) handler.Response {
	dob, dobErr := time.Parse(dateLayout, req.DateOfBirth)

	rules := []validator.Rule{
		validator.RequiredString("name", req.Name),
		validator.ValidUsername("username", req.Username, 3, 30),
		validator.ValidEmail("email", req.Email),
		validator.MinLenString("password", req.Password, 8),
		validator.ValidPhone("phoneNumber", req.PhoneNumber),
		validator.RequiredString("dateOfBirth", req.DateOfBirth),
		validator.OneOfString("gender", req.Gender, Genders),
		validator.RequiredString("institution", req.Institution),
		validator.RequiredString("educationLevel", req.EducationLevel),
		validator.RequiredString("address", req.Address),
	}
	if req.DateOfBirth != "" {
		rules = append(rules, validator.Rule{
			Check: func() bool { return dobErr == nil },
			Error: validator.ValidationError{Field: "dateOfBirth", Message: "must be a date in YYYY-MM-DD format"},
		})
	}
	if req.UserType != "" {
		rules = append(rules, validator.OneOfString("userType", req.UserType, []string{UserTypeVolunteer, UserTypeOrganisation}))
	}
	if req.Location != nil {
		rules = append(rules,
			validator.LongitudeRange("location", req.Location.Lng()),
			validator.LatitudeRange("location", req.Location.Lat()),
			validator.Rule{
				Check: func() bool { return req.Location.Type == geo.PointType },
				Error: validator.ValidationError{Field: "location", Message: "must be a GeoJSON Point"},
			},
		)
	}
	if err := validator.Apply(rules...); err != nil {
		return handler.JSONError(err)
	}

	account, err := s.Register(ctx, RegisterParams{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		Institution:    req.Institution,
		EducationLevel: req.EducationLevel,
		Address:        req.Address,
		Location:       req.Location,
		UserType:       req.UserType,
	})
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return handler.JSON(toPayload(account),
		handler.WithStatus(http.StatusCreated),
		handler.WithMessage("Verification code sent to your email"))
}

func (s *Service) handleVerify(ctx handler.Context, req VerifyRequest) handler.Response {
	if err := validator.Apply(
		validator.ValidEmail("email", req.Email),
		validator.ValidOTP("code", req.Code, s.cfg.CodeLength),
	); err != nil {
		return handler.JSONError(err)
	}

	account, err := s.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return handler.JSON(toPayload(account),
		handler.WithMessage("Account verified successfully! You can now log in"))
}

func (s *Service) handleResend(ctx handler.Context, req VerifyRequest) handler.Response {
	if err := validator.Apply(validator.ValidEmail("email", req.Email)); err != nil {
		return handler.JSONError(err)
	}

	if err := s.ResendCode(ctx, req.Email); err != nil {
		return s.errorResponse(ctx, err)
	}

	return handler.JSONMessage("New verification code sent to your email")
}

func (s *Service) handleLogin(ctx handler.Context, req LoginRequest) handler.Response {
	if err := validator.Apply(
		validator.ValidEmail("email", req.Email),
		validator.RequiredString("password", req.Password),
	); err != nil {
		return handler.JSONError(err)
	}

	account, err := s.Login(ctx, ctx.ResponseWriter(), req.Email, req.Password)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return handler.JSON(toPayload(account), handler.WithMessage("Logged in successfully"))
}

func (s *Service) handleLogout(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.Logout(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return s.errorResponse(ctx, err)
	}
	return handler.JSONMessage("Logged out successfully")
}

// errorResponse maps service errors to client-facing JSON envelopes.
// Unexpected errors are logged and masked.
func (s *Service) errorResponse(ctx handler.Context, err error) handler.Response {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("User already exists"))
	case errors.Is(err, ErrNotFound):
		return handler.JSONError(handler.ErrNotFound,
			handler.WithMessage("User not found with this email address"))
	case errors.Is(err, ErrAlreadyVerified):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("Account is already verified"))
	case errors.Is(err, ErrNoCode):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("No verification code found. Please request a new one"))
	case errors.Is(err, ErrInvalidCode):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("Invalid verification code"))
	case errors.Is(err, ErrCodeExpired):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("Verification code has expired. Please request a new one"))
	case errors.Is(err, ErrInvalidCredentials):
		return handler.JSONError(handler.ErrBadRequest,
			handler.WithMessage("Invalid email or password"))
	case errors.Is(err, ErrNotVerified):
		return handler.JSONError(handler.ErrForbidden,
			handler.WithMessage("Account is not verified. Please verify your email first"))
	case errors.Is(err, ErrSendEmail):
		return handler.JSONError(handler.ErrInternalServerError,
			handler.WithMessage("Failed to send verification email. Please try again"))
	default:
		s.log.ErrorContext(ctx, "auth request failed", logger.Error(err))
		return handler.JSONError(handler.ErrInternalServerError,
			handler.WithMessage("Something went wrong"))
	}
}
