package project

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/sanitizer"
)

// Service creates projects and answers map and proximity queries.
type Service struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
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

// NewService creates the project service.
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

// Create stores a new project at the given location.
func (s *Service) Create(ctx context.Context, name string, location geo.Point, createdBy uuid.UUID) (*Project, error) {
	now := s.now().UTC()
	project := &Project{
		ID:        uuid.New(),
		Name:      sanitizer.TrimText(name),
		Location:  location,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Map returns every project for map rendering.
func (s *Service) Map(ctx context.Context) ([]*Project, error) {
	return s.storage.List(ctx)
}

// Nearby returns projects within radiusKM of origin, closest first.
// Distances are great-circle kilometers.
func (s *Service) Nearby(ctx context.Context, origin geo.Point, radiusKM float64) ([]NearbyProject, error) {
	projects, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	var nearby []NearbyProject
	for _, project := range projects {
		distance := geo.Haversine(origin, project.Location)
		if distance <= radiusKM {
			nearby = append(nearby, NearbyProject{Project: project, DistanceKM: distance})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})
	return nearby, nil
}
