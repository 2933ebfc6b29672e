package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*redisRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return &redisRepository{client: client}, server
}

func TestRedisRepository_SetGetDelete(t *testing.T) {
	repo, server := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", "value", time.Minute))
	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"value"`, value)

	server.FastForward(2 * time.Minute)
	value, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, repo.SetRaw(ctx, "raw", []byte(`{"a":1}`), time.Minute))
	require.NoError(t, repo.Delete(ctx, "raw"))
	value, err = repo.Get(ctx, "raw")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisRepository_TrySetNX(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	acquired, err := repo.TrySetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = repo.TrySetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRedisRepository_Increment(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Increment(ctx, "version")
	require.NoError(t, err)
	second, err := repo.Increment(ctx, "version")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestRedisRepository_CompareAndSwap(t *testing.T) {
	repo, server := newTestRepository(t)
	ctx := context.Background()

	swapped, err := repo.CompareAndSwap(ctx, "missing", func(string) bool { return true }, []byte("x"), time.Minute)
	require.NoError(t, err)
	assert.False(t, swapped)

	require.NoError(t, repo.SetRaw(ctx, "k", []byte("old"), time.Minute))

	swapped, err = repo.CompareAndSwap(ctx, "k", func(current string) bool { return current == "other" }, []byte("new"), time.Minute)
	require.NoError(t, err)
	assert.False(t, swapped)

	swapped, err = repo.CompareAndSwap(ctx, "k", func(current string) bool { return current == "old" }, []byte("new"), time.Hour)
	require.NoError(t, err)
	assert.True(t, swapped)

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", value)
	assert.Equal(t, time.Hour, server.TTL("k"))
}

func TestRedisRepository_CompareAndSwapConcurrentWriter(t *testing.T) {
	repo, server := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.SetRaw(ctx, "k", []byte("old"), time.Minute))

	swapped, err := repo.CompareAndSwap(ctx, "k", func(current string) bool {
		// another client writes between WATCH and EXEC
		require.NoError(t, server.Set("k", "intruder"))
		return current == "old"
	}, []byte("new"), time.Minute)
	require.NoError(t, err)
	assert.False(t, swapped)

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "intruder", value)
}
