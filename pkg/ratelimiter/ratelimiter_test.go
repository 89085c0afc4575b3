package ratelimiter_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/pkg/ratelimiter"
)

func newBucket(t *testing.T, cfg ratelimiter.Config) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	tb, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return tb
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Second}},
		{"zero refill rate", ratelimiter.Config{Capacity: 5, RefillRate: 0, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 5, RefillRate: 1, RefillInterval: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ratelimiter.NewBucket(store, tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	t.Run("consumes until empty", func(t *testing.T) {
		t.Parallel()

		tb := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Hour})

		for i := range 3 {
			result, err := tb.Allow(t.Context(), "key")
			require.NoError(t, err)
			assert.True(t, result.Allowed(), "request %d should be allowed", i)
		}

		result, err := tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		assert.False(t, result.Allowed())
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()

		tb := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})

		result, err := tb.Allow(t.Context(), "a")
		require.NoError(t, err)
		assert.True(t, result.Allowed())

		result, err = tb.Allow(t.Context(), "b")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})

	t.Run("refills over time", func(t *testing.T) {
		t.Parallel()

		tb := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: 20 * time.Millisecond})

		result, err := tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		require.True(t, result.Allowed())

		result, err = tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		require.False(t, result.Allowed())

		time.Sleep(30 * time.Millisecond)

		result, err = tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})

	t.Run("rejects non-positive token count", func(t *testing.T) {
		t.Parallel()

		tb := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
		_, err := tb.AllowN(t.Context(), "key", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})

	t.Run("reset refills the bucket", func(t *testing.T) {
		t.Parallel()

		tb := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})

		_, err := tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		require.NoError(t, tb.Reset(t.Context(), "key"))

		result, err := tb.Allow(t.Context(), "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	byPath := func(r *http.Request) string { return r.URL.Path }
	byMethod := func(r *http.Request) string { return r.Method }

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", nil)

	assert.Equal(t, "/api/users/login", ratelimiter.Composite(byPath)(req))
	assert.Equal(t, "POST:/api/users/login", ratelimiter.Composite(byMethod, byPath)(req))
	assert.Empty(t, ratelimiter.Composite(func(*http.Request) string { return "" })(req))

	// Over-long keys collapse to a short hash.
	long := func(*http.Request) string { return strings.Repeat("a", 100) }
	assert.LessOrEqual(t, len(ratelimiter.Composite(long, byPath)(req)), 64)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tb := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})
	keyFunc := func(r *http.Request) string { return "global" }

	h := ratelimiter.Middleware(tb, keyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later"}`, rec.Body.String())
}
