package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*RedisCacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc, err := CreateCacheService("redis://" + mr.Addr())
	require.NoError(t, err)
	return svc.(*RedisCacheService), mr
}

func TestSetGetDelete(t *testing.T) {
	svc, _ := setupTestCache(t)
	defer svc.Close()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "stats:alice@example.com", `{"drafts":2}`, time.Minute))

	got, err := svc.Get(ctx, "stats:alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, `{"drafts":2}`, got)

	exists, err := svc.Exists(ctx, "stats:alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.Delete(ctx, "stats:alice@example.com"))
	_, err = svc.Get(ctx, "stats:alice@example.com")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetMissingKey(t *testing.T) {
	svc, _ := setupTestCache(t)
	defer svc.Close()

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestExpiration(t *testing.T) {
	svc, mr := setupTestCache(t)
	defer svc.Close()
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "session:tok", "us1122334456", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := svc.Get(ctx, "session:tok")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestHashOperations(t *testing.T) {
	svc, _ := setupTestCache(t)
	defer svc.Close()
	ctx := context.Background()

	require.NoError(t, svc.HSet(ctx, "session:tok", "user_id", "us1122334456"))
	require.NoError(t, svc.HSet(ctx, "session:tok", "email", "john.doe@cloudbyz.com"))

	id, err := svc.HGet(ctx, "session:tok", "user_id")
	require.NoError(t, err)
	assert.Equal(t, "us1122334456", id)

	all, err := svc.HGetAll(ctx, "session:tok")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "john.doe@cloudbyz.com", all["email"])

	_, err = svc.HGet(ctx, "session:tok", "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestPing(t *testing.T) {
	svc, mr := setupTestCache(t)
	defer svc.Close()

	assert.NoError(t, svc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, svc.Ping(context.Background()))
}
