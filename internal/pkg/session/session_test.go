package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwtpkg "github.com/ecoexplorer/core/internal/pkg/jwt"
	"github.com/ecoexplorer/core/internal/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewStore(redis.New(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))), mr
}

func TestIssueAndRevoke(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	token, sess, err := store.Issue(ctx, "admin@example.com", "127.0.0.1", "test", time.Hour)
	require.NoError(t, err)

	claims, err := jwtpkg.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, claims.SessionID)

	active, err := store.IsActive(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, active)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email)

	require.NoError(t, store.Revoke(ctx, sess.ID))
	active, err = store.IsActive(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, sess, err := store.Issue(ctx, "admin@example.com", "", "", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	active, err := store.IsActive(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestNilStoreIsStateless(t *testing.T) {
	var store *Store
	token, sess, err := store.Issue(context.Background(), "admin@example.com", "", "", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, DefaultTTL, sess.ExpiresAt.Sub(sess.CreatedAt))

	active, err := store.IsActive(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, active)
}
