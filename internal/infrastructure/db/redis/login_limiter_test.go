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

func newTestLimiter(t *testing.T, max int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, max, window), mr
}

func TestLoginLimiter_BlocksAfterMaxFailures(t *testing.T) {
	l, mr := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "a@example.com|1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, l.Fail(ctx, "a@example.com|1.2.3.4"))
	}

	ok, err := l.Allow(ctx, "a@example.com|1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	// other keys are unaffected
	ok, err = l.Allow(ctx, "b@example.com|1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("login:fail:a@example.com|1.2.3.4"))
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "k"))
	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_FailKeepsFirstWindow(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	ctx := context.Background()
	key := "login:fail:k"

	require.NoError(t, l.Fail(ctx, "k"))
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(40 * time.Second)
	require.NoError(t, l.Fail(ctx, "k"))
	assert.Equal(t, 20*time.Second, mr.TTL(key))

	n, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "2", n)
}

func TestLoginLimiter_FailWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	assert.Error(t, l.Fail(context.Background(), "k"))
}

func TestLoginLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "k"))
	require.NoError(t, l.Reset(ctx, "k"))

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_ErrorWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, Ping(context.Background(), client))
}
