package profile

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/volunhub/volunhub/binder"
	"github.com/volunhub/volunhub/handler"
	"github.com/volunhub/volunhub/modules/auth"
	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/logger"
	"github.com/volunhub/volunhub/pkg/session"
	"github.com/volunhub/volunhub/pkg/validator"
)

// UpdateRequest is the PATCH /profile payload. Absent fields are left
// unchanged.
type UpdateRequest struct {
	Name           *string    `json:"name,omitempty"`
	PhoneNumber    *string    `json:"phoneNumber,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Institution    *string    `json:"institution,omitempty"`
	EducationLevel *string    `json:"educationLevel,omitempty"`
	Location       *geo.Point `json:"location,omitempty"`
}

// profilePayload is the full profile shape returned to its owner. The
// password hash and verification code state never appear here.
type profilePayload struct {
	UserID         string     `json:"userId"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	DateOfBirth    string     `json:"dateOfBirth"`
	Gender         string     `json:"gender"`
	Institution    string     `json:"institution"`
	EducationLevel string     `json:"educationLevel"`
	Address        string     `json:"address"`
	Location       *geo.Point `json:"location,omitempty"`
	UserType       string     `json:"userType"`
	IsVerified     bool       `json:"isVerified"`

	TotalHoursVolunteered float64 `json:"totalHoursVolunteered"`
	TotalProjectsJoined   int     `json:"totalProjectsJoined"`
	ImpactScore           float64 `json:"impactScore"`

	CreatedAt time.Time `json:"createdAt"`
}

func toPayload(a *auth.Account) profilePayload {
	return profilePayload{
		UserID:         a.ID.String(),
		Name:           a.Name,
		Username:       a.Username,
		Email:          a.Email,
		PhoneNumber:    a.PhoneNumber,
		DateOfBirth:    a.DateOfBirth.Format("2006-01-02"),
		Gender:         a.Gender,
		Institution:    a.Institution,
		EducationLevel: a.EducationLevel,
		Address:        a.Address,
		Location:       a.Location,
		UserType:       a.UserType,
		IsVerified:     a.IsVerified(),

		TotalHoursVolunteered: a.TotalHoursVolunteered,
		TotalProjectsJoined:   a.TotalProjectsJoined,
		ImpactScore:           a.ImpactScore,

		CreatedAt: a.CreatedAt,
	}
}

func (s *Service) handleGet(ctx handler.Context, _ struct{}) handler.Response {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	account, err := s.Get(ctx, sess)
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return handler.JSON(toPayload(account), handler.WithMessage("User profile fetched"))
}

func (s *Service) handleUpdate(ctx handler.Context, req UpdateRequest) handler.Response {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	var rules []validator.Rule
	if req.Name != nil {
		rules = append(rules, validator.RequiredString("name", *req.Name))
	}
	if req.PhoneNumber != nil {
		rules = append(rules, validator.ValidPhone("phoneNumber", *req.PhoneNumber))
	}
	if req.Address != nil {
		rules = append(rules, validator.RequiredString("address", *req.Address))
	}
	if req.Institution != nil {
		rules = append(rules, validator.RequiredString("institution", *req.Institution))
	}
	if req.EducationLevel != nil {
		rules = append(rules, validator.RequiredString("educationLevel", *req.EducationLevel))
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

	account, err := s.Update(ctx, sess, UpdateParams{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		Institution:    req.Institution,
		EducationLevel: req.EducationLevel,
		Location:       req.Location,
	})
	if err != nil {
		return s.errorResponse(ctx, err)
	}
	return handler.JSON(toPayload(account), handler.WithMessage("Profile updated successfully"))
}

func (s *Service) errorResponse(ctx handler.Context, err error) handler.Response {
	if errors.Is(err, auth.ErrNotFound) {
		return handler.JSONError(handler.ErrNotFound, handler.WithMessage("User not found"))
	}
	s.log.ErrorContext(ctx, "profile request failed", logger.Error(err))
	return handler.JSONError(handler.ErrInternalServerError,
		handler.WithMessage("Something went wrong"))
}

// RouterOptions configures HTTP wiring for the profile routes.
type RouterOptions struct {
	// ErrorHandler receives bind and render failures.
	ErrorHandler handler.ErrorHandler[handler.Context]
}

// Handle returns the profile router. Mount it under /api/users/profile
// behind session.Manager.RequireAuth.
func (s *Service) Handle(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.handleGet,
		handler.WithErrorHandler[handler.Context, struct{}](opts.ErrorHandler),
	))
	r.Patch("/", handler.Wrap(s.handleUpdate,
		handler.WithBinders[handler.Context, UpdateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, UpdateRequest](opts.ErrorHandler),
	))

	return r
}
