package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var s Store = Noop{}
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []int{1}))
	var out []int
	hit, err := s.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, s.Bump(ctx, "recommend"))
	gen, err := s.Generation(ctx, "recommend")
	require.NoError(t, err)
	assert.Zero(t, gen)
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})

	ctx := context.Background()
	s := NewRedis(client, time.Minute)

	gen, err := s.Generation(ctx, "recommend")
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, s.Set(ctx, "recommend:0:pune", []int64{3, 1}))
	var ids []int64
	hit, err := s.Get(ctx, "recommend:0:pune", &ids)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []int64{3, 1}, ids)

	require.NoError(t, s.Bump(ctx, "recommend"))
	gen, err = s.Generation(ctx, "recommend")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestMemoryGenerations(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "recommend:0:a", map[string]int{"n": 1}))
	var out map[string]int
	hit, err := s.Get(ctx, "recommend:0:a", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, out["n"])

	require.NoError(t, s.Bump(ctx, "recommend"))
	require.NoError(t, s.Bump(ctx, "recommend"))
	gen, err := s.Generation(ctx, "recommend")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	gen, err = s.Generation(ctx, "other")
	require.NoError(t, err)
	assert.Zero(t, gen)
	assert.Equal(t, 1, s.Len())
}
