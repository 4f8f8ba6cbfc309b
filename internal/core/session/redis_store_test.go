package session

import (
	"context"
	"testing"
	"time"

	"comex-portal/internal/core/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return NewRedisStore(adapter, ttl), mr
}

func TestRedisStore_SaveGet(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	sess := &Session{
		ID:           "abc-123",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}

	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, sess.AccessToken, loaded.AccessToken)
	assert.Equal(t, sess.RefreshToken, loaded.RefreshToken)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "short-lived"}))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "short-lived")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "to-delete"}))
	require.NoError(t, store.Delete(ctx, "to-delete"))

	_, err := store.Get(ctx, "to-delete")
	assert.ErrorIs(t, err, ErrNotFound)
}
