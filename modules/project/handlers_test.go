package project_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/modules/auth"
	"github.com/volunhub/volunhub/modules/project"
	"github.com/volunhub/volunhub/pkg/geo"
	"github.com/volunhub/volunhub/pkg/session"
)

// withSession injects a login session into every request's context, the way
// session.Manager.RequireAuth does in production.
func withSession(userType string) func(http.Handler) http.Handler {
	sess := session.NewSession("test-token", uuid.New(), userType, time.Hour)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func newTestHandler(userType string) http.Handler {
	svc := project.NewService(&fakeStorage{})
	opts := project.RouterOptions{}
	if userType != "" {
		opts.RequireAuth = withSession(userType)
	}
	return svc.Handle(opts)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func postProject(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

const projectBody = `{"name":"beach cleanup","location":{"type":"Point","coordinates":[103.9915,1.3644]}}`

func TestCreateEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("organisation can create", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(auth.UserTypeOrganisation)

		rec, env := postProject(t, h, projectBody)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "Project created successfully", env.Message)
	})

	t.Run("volunteer is forbidden", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(auth.UserTypeVolunteer)

		rec, env := postProject(t, h, projectBody)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Only organisations can create projects", env.Message)
	})

	t.Run("invalid coordinates are rejected", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(auth.UserTypeOrganisation)

		rec, _ := postProject(t, h, `{"name":"x","location":{"type":"Point","coordinates":[200,95]}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMapEndpoint(t *testing.T) {
	t.Parallel()

	storage := &fakeStorage{}
	svc := project.NewService(storage)
	_, err := svc.Create(t.Context(), "beach cleanup", geo.NewPoint(103.9915, 1.3644), uuid.Nil)
	require.NoError(t, err)

	h := svc.Handle(project.RouterOptions{})
	req := httptest.NewRequest(http.MethodGet, "/map", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    []struct {
			Name     string    `json:"name"`
			Location geo.Point `json:"location"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "beach cleanup", env.Data[0].Name)
	assert.Equal(t, geo.PointType, env.Data[0].Location.Type)
	assert.Equal(t, 103.9915, env.Data[0].Location.Lng())
}

func TestNearbyEndpoint(t *testing.T) {
	t.Parallel()

	storage := &fakeStorage{}
	svc := project.NewService(storage)
	for name, loc := range map[string]geo.Point{
		"botanic cleanup": geo.NewPoint(103.8159, 1.3138),
		"changi beach":    geo.NewPoint(103.9915, 1.3644),
		"kl food drive":   geo.NewPoint(101.6869, 3.1390),
	} {
		_, err := svc.Create(t.Context(), name, loc, uuid.Nil)
		require.NoError(t, err)
	}
	h := svc.Handle(project.RouterOptions{})

	t.Run("returns sorted distances", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/nearby?lng=103.8198&lat=1.3521&radius_km=50", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Data []struct {
				Name       string  `json:"name"`
				DistanceKM float64 `json:"distance_km"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		require.Len(t, env.Data, 2)
		assert.Equal(t, "botanic cleanup", env.Data[0].Name)
		assert.Less(t, env.Data[0].DistanceKM, env.Data[1].DistanceKM)
	})

	t.Run("missing radius is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/nearby?lng=103.8&lat=1.35", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out of range origin is rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/nearby?lng=200&lat=95&radius_km=10", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
