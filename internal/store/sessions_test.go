package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojolog/dojolog-server/internal/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "sessions"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newSession(id, userID, tokenID string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		UserID:    userID,
		TokenID:   tokenID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.DefaultSessionDuration),
		UserAgent: "test",
	}
}

func TestCreateSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := newSession("sess-1", "user-1", "tok-1")
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.TokenID, got.TokenID)
	assert.Equal(t, "test", got.UserAgent)
}

func TestCreateSession_DuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))

	err := s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateSession_AlreadyExpired(t *testing.T) {
	s := setupTestStore(t)

	session := newSession("sess-1", "user-1", "tok-1")
	session.ExpiresAt = time.Now().Add(-time.Minute)

	assert.ErrorIs(t, s.CreateSession(context.Background(), session), ErrSessionExpired)
}

func TestGetSession_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetSession_Expired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))

	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSessionByToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))

	got, err := s.GetSessionByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)

	_, err = s.GetSessionByToken(ctx, "tok-unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))
	require.NoError(t, s.DeleteSession(ctx, "sess-1"))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = s.GetSessionByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteSession(ctx, "sess-1"))
}

func TestListUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))
	require.NoError(t, s.CreateSession(ctx, newSession("sess-2", "user-1", "tok-2")))
	require.NoError(t, s.CreateSession(ctx, newSession("sess-3", "user-10", "tok-3")))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{"sess-1", "sess-2"}, ids)
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newSession("sess-1", "user-1", "tok-1")))
	require.NoError(t, s.CreateSession(ctx, newSession("sess-2", "user-1", "tok-2")))
	require.NoError(t, s.CreateSession(ctx, newSession("sess-3", "user-2", "tok-3")))

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-1"))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = s.GetSession(ctx, "sess-3")
	assert.NoError(t, err)
}

func TestPing(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "sessions"), nil)
	require.NoError(t, err)

	assert.NoError(t, s.Ping())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(), ErrClosed)
}

func TestCollectGarbage_EmptyStore(t *testing.T) {
	s := setupTestStore(t)

	n, err := s.CollectGarbage(0.5)
	require.NoError(t, err)
	assert.Zero(t, n)
}
