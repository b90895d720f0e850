package mongo

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

func setupConn(t *testing.T) *Conn {
	t.Helper()
	target := testutil.SetupTestMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, err := Connect(ctx, ConnectOptions{URI: target.URI, Database: target.Database, Timeout: 5 * time.Second})
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := conn.db.Drop(cleanupCtx); err != nil {
			t.Logf("warning: failed to drop test database %s: %v", target.Database, err)
		}
		_ = conn.Close(cleanupCtx)
	})
	return conn
}

func testAccount(id, email string) domainauth.Account {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domainauth.Account{
		User: domainauth.User{
			ID: id, Email: email, Name: "Test", Role: domainauth.RoleBrand,
			CreatedAt: now, UpdatedAt: now,
		},
		PasswordHash: "hash",
	}
}

func TestUserStore_CreateAndFind(t *testing.T) {
	conn := setupConn(t)
	users := conn.Users()
	ctx := context.Background()

	acct := testAccount("u-1", "brand@example.com")
	require.NoError(t, users.Create(ctx, acct))

	byEmail, err := users.FindByEmail(ctx, "brand@example.com")
	require.NoError(t, err)
	assert.Equal(t, acct, byEmail)

	byID, err := users.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, acct.User.Email, byID.User.Email)

	_, err = users.FindByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_DuplicateEmailIsConflict(t *testing.T) {
	conn := setupConn(t)
	users := conn.Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, testAccount("u-1", "dup@example.com")))
	err := users.Create(ctx, testAccount("u-2", "dup@example.com"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestSessionStore_Lifecycle(t *testing.T) {
	conn := setupConn(t)
	sessions := conn.Sessions()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	live := domainauth.Session{ID: "s-live", UserID: "u-1", Token: "t", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := domainauth.Session{ID: "s-dead", UserID: "u-1", Token: "t", CreatedAt: now, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, sessions.Save(ctx, live))
	require.NoError(t, sessions.Save(ctx, dead))

	got, err := sessions.Get(ctx, "s-live")
	require.NoError(t, err)
	assert.Equal(t, live, got)

	n, err := sessions.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, sessions.Delete(ctx, "s-live"))
	_, err = sessions.Get(ctx, "s-live")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestConn_ListDatabases(t *testing.T) {
	conn := setupConn(t)
	ctx := context.Background()
	require.NoError(t, conn.Users().Create(ctx, testAccount("u-1", "a@example.com")))

	names, err := conn.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, conn.Database())
}
