package project

import (
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

// CreateRequest is the POST / payload.
type CreateRequest struct {
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
}

// NearbyRequest is bound from the /nearby query string.
type NearbyRequest struct {
	Lng      float64 `query:"lng"`
	Lat      float64 `query:"lat"`
	RadiusKM float64 `query:"radius_km"`
}

type projectPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  geo.Point `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

type nearbyPayload struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Location   geo.Point `json:"location"`
	DistanceKM float64   `json:"distance_km"`
}

func toPayload(p *Project) projectPayload {
	return projectPayload{
		ID:        p.ID.String(),
		Name:      p.Name,
		Location:  p.Location,
		CreatedAt: p.CreatedAt,
	}
}

func (s *Service) handleCreate(ctx handler.Context, req CreateRequest) handler.Response {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if sess.UserType != auth.UserTypeOrganisation {
		return handler.JSONError(handler.ErrForbidden,
			handler.WithMessage("Only organisations can create projects"))
	}

	if err := validator.Apply(
		validator.RequiredString("name", req.Name),
		validator.LongitudeRange("location", req.Location.Lng()),
		validator.LatitudeRange("location", req.Location.Lat()),
		validator.Rule{
			Check: func() bool { return req.Location.Type == geo.PointType },
			Error: validator.ValidationError{Field: "location", Message: "must be a GeoJSON Point"},
		},
	); err != nil {
		return handler.JSONError(err)
	}

	project, err := s.Create(ctx, req.Name, req.Location, sess.UserID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return handler.JSON(toPayload(project),
		handler.WithStatus(http.StatusCreated),
		handler.WithMessage("Project created successfully"))
}

func (s *Service) handleMap(ctx handler.Context, _ struct{}) handler.Response {
	projects, err := s.Map(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	payload := make([]projectPayload, 0, len(projects))
	for _, project := range projects {
		payload = append(payload, toPayload(project))
	}
	return handler.JSON(payload)
}

func (s *Service) handleNearby(ctx handler.Context, req NearbyRequest) handler.Response {
	if err := validator.Apply(
		validator.LongitudeRange("lng", req.Lng),
		validator.LatitudeRange("lat", req.Lat),
		validator.Rule{
			Check: func() bool { return req.RadiusKM > 0 },
			Error: validator.ValidationError{Field: "radius_km", Message: "must be greater than zero"},
		},
	); err != nil {
		return handler.JSONError(err)
	}

	nearby, err := s.Nearby(ctx, geo.NewPoint(req.Lng, req.Lat), req.RadiusKM)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	payload := make([]nearbyPayload, 0, len(nearby))
	for _, item := range nearby {
		payload = append(payload, nearbyPayload{
			ID:         item.Project.ID.String(),
			Name:       item.Project.Name,
			Location:   item.Project.Location,
			DistanceKM: item.DistanceKM,
		})
	}
	return handler.JSON(payload)
}

func (s *Service) errorResponse(ctx handler.Context, err error) handler.Response {
	s.log.ErrorContext(ctx, "project request failed", logger.Error(err))
	return handler.JSONError(handler.ErrInternalServerError,
		handler.WithMessage("Something went wrong"))
}

// RouterOptions configures HTTP wiring for the project routes.
type RouterOptions struct {
	// ErrorHandler receives bind and render failures.
	ErrorHandler handler.ErrorHandler[handler.Context]

	// RequireAuth guards project creation. Map and nearby stay public.
	RequireAuth func(http.Handler) http.Handler
}

// Handle returns the project router. Mount it under /api/projects.
func (s *Service) Handle(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	create := handler.Wrap(s.handleCreate,
		handler.WithBinders[handler.Context, CreateRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, CreateRequest](opts.ErrorHandler),
	)
	if opts.RequireAuth != nil {
		r.Method(http.MethodPost, "/", opts.RequireAuth(create))
	} else {
		r.Method(http.MethodPost, "/", create)
	}

	r.Get("/map", handler.Wrap(s.handleMap,
		handler.WithErrorHandler[handler.Context, struct{}](opts.ErrorHandler),
	))
	r.Get("/nearby", handler.Wrap(s.handleNearby,
		handler.WithBinders[handler.Context, NearbyRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, NearbyRequest](opts.ErrorHandler),
	))

	return r
}
