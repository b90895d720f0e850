package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
	"github.com/ori-platform/ori-auth/internal/testutil"
)

func newSession(id string, ttl time.Duration) domainauth.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		Token:     "signed-token",
		IPAddress: "127.0.0.1",
		UserAgent: "go-test",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client, srv := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := newSession("s-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.IPAddress, got.IPAddress)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	assert.True(t, srv.Exists(DefaultKeyPrefix+"s-1"))
	ttl := srv.TTL(DefaultKeyPrefix + "s-1")
	assert.InDelta(t, (30 * time.Minute).Seconds(), ttl.Seconds(), 5)
}

func TestSessionStore_GetMissing(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.Get(context.Background(), "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_ExpiresWithTTL(t *testing.T) {
	client, srv := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("s-ttl", time.Minute)))
	srv.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s-ttl")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Save(ctx, newSession("", time.Minute))
	assert.True(t, apperrors.IsValidation(err))

	err = store.Save(ctx, newSession("old", -time.Minute))
	assert.True(t, apperrors.IsValidation(err))
}

func TestSessionStore_Delete(t *testing.T) {
	client, srv := testutil.SetupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("s-del", time.Minute)))
	assert.True(t, srv.Exists("test:s-del"))

	require.NoError(t, store.Delete(ctx, "s-del"))
	assert.False(t, srv.Exists("test:s-del"))

	require.NoError(t, store.Delete(ctx, "s-del"))
	require.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_ServerDown(t *testing.T) {
	client, srv := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	srv.Close()

	_, err := store.Get(context.Background(), "s-1")
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
	assert.Error(t, store.Ping(context.Background()))
}

func TestSessionStore_Ping(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	require.NoError(t, NewSessionStore(client).Ping(context.Background()))
}
