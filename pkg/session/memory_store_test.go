package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("create and get return a copy", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := session.NewSession("tok-1", uuid.New(), "volunteer", time.Hour)
		require.NoError(t, store.Create(t.Context(), sess))

		got, err := store.Get(t.Context(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)

		got.UserType = "organisation"
		again, err := store.Get(t.Context(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "volunteer", again.UserType)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		err := store.Create(t.Context(), &session.Session{})
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		_, err := store.Get(t.Context(), "nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("expired sessions are evicted on read", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		sess := session.NewSession("tok-2", uuid.New(), "volunteer", -time.Minute)
		require.NoError(t, store.Create(t.Context(), sess))

		_, err := store.Get(t.Context(), "tok-2")
		assert.ErrorIs(t, err, session.ErrSessionExpired)
	})

	t.Run("delete by user id", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		userID := uuid.New()
		require.NoError(t, store.Create(t.Context(), session.NewSession("a", userID, "volunteer", time.Hour)))
		require.NoError(t, store.Create(t.Context(), session.NewSession("b", userID, "volunteer", time.Hour)))
		require.NoError(t, store.Create(t.Context(), session.NewSession("c", uuid.New(), "volunteer", time.Hour)))

		require.NoError(t, store.DeleteByUserID(t.Context(), userID.String()))

		_, err := store.Get(t.Context(), "a")
		assert.Error(t, err)
		_, err = store.Get(t.Context(), "b")
		assert.Error(t, err)
		_, err = store.Get(t.Context(), "c")
		assert.NoError(t, err)
	})

	t.Run("delete expired sweeps only stale sessions", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		require.NoError(t, store.Create(t.Context(), session.NewSession("stale", uuid.New(), "volunteer", -time.Minute)))
		require.NoError(t, store.Create(t.Context(), session.NewSession("fresh", uuid.New(), "volunteer", time.Hour)))

		require.NoError(t, store.DeleteExpired(t.Context()))

		_, err := store.Get(t.Context(), "fresh")
		assert.NoError(t, err)
	})
}
