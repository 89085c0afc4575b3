package project_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/modules/project"
	"github.com/volunhub/volunhub/pkg/geo"
)

type fakeStorage struct {
	mu       sync.Mutex
	projects []*project.Project
	failWith error
}

func (f *fakeStorage) Create(_ context.Context, p *project.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	copied := *p
	f.projects = append(f.projects, &copied)
	return nil
}

func (f *fakeStorage) List(_ context.Context) ([]*project.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]*project.Project, len(f.projects))
	for i, p := range f.projects {
		copied := *p
		out[i] = &copied
	}
	return out, nil
}

func seedProjects(t *testing.T, svc *project.Service, locations map[string]geo.Point) {
	t.Helper()
	for name, loc := range locations {
		_, err := svc.Create(t.Context(), name, loc, uuid.Nil)
		require.NoError(t, err)
	}
}

func TestServiceNearby(t *testing.T) {
	t.Parallel()

	// Distances from central Singapore (103.8198, 1.3521):
	// botanic gardens ~4 km, changi ~17 km, kuala lumpur ~316 km.
	origin := geo.NewPoint(103.8198, 1.3521)
	locations := map[string]geo.Point{
		"botanic cleanup": geo.NewPoint(103.8159, 1.3138),
		"changi beach":    geo.NewPoint(103.9915, 1.3644),
		"kl food drive":   geo.NewPoint(101.6869, 3.1390),
	}

	t.Run("filters by radius and sorts ascending", func(t *testing.T) {
		t.Parallel()
		svc := project.NewService(&fakeStorage{})
		seedProjects(t, svc, locations)

		nearby, err := svc.Nearby(t.Context(), origin, 50)
		require.NoError(t, err)
		require.Len(t, nearby, 2)

		assert.Equal(t, "botanic cleanup", nearby[0].Project.Name)
		assert.Equal(t, "changi beach", nearby[1].Project.Name)
		assert.Less(t, nearby[0].DistanceKM, nearby[1].DistanceKM)
		assert.InDelta(t, 4.3, nearby[0].DistanceKM, 1)
	})

	t.Run("wide radius includes everything", func(t *testing.T) {
		t.Parallel()
		svc := project.NewService(&fakeStorage{})
		seedProjects(t, svc, locations)

		nearby, err := svc.Nearby(t.Context(), origin, 1000)
		require.NoError(t, err)
		require.Len(t, nearby, 3)
		assert.Equal(t, "kl food drive", nearby[2].Project.Name)
	})

	t.Run("no matches", func(t *testing.T) {
		t.Parallel()
		svc := project.NewService(&fakeStorage{})
		seedProjects(t, svc, locations)

		nearby, err := svc.Nearby(t.Context(), origin, 1)
		require.NoError(t, err)
		assert.Empty(t, nearby)
	})
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	storage := &fakeStorage{}
	svc := project.NewService(storage)

	created, err := svc.Create(t.Context(), "  beach   cleanup ", geo.NewPoint(103.99, 1.36), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "beach cleanup", created.Name)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	listed, err := svc.Map(t.Context())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}
