package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client, "test"), mr
}

func TestAllow_FixedWindow(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Name: "job_create", Limit: 5, Window: 60 * time.Second, FailOpen: true}

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "user-1", policy)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "call %d", i)
		assert.Equal(t, int64(5-i), d.Remaining)
	}

	d, err := l.Allow(ctx, "user-1", policy)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "6th call within the window must be denied")
	assert.Equal(t, int64(6), d.Count)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, 60*time.Second)

	// другой ключ считается отдельно
	d, err = l.Allow(ctx, "user-2", policy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	mr.FastForward(61 * time.Second)

	d, err = l.Allow(ctx, "user-1", policy)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "counter resets after the window")
	assert.Equal(t, int64(1), d.Count)
}

func TestAllow_ExpirySetOnFirstIncrementOnly(t *testing.T) {
	l, mr := newTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Name: "message_send", Limit: 10, Window: 30 * time.Second}

	_, err := l.Allow(ctx, "k", policy)
	require.NoError(t, err)
	mr.FastForward(20 * time.Second)
	_, err = l.Allow(ctx, "k", policy)
	require.NoError(t, err)

	// TTL не продлевается вторым вызовом
	assert.Equal(t, 10*time.Second, mr.TTL("test:message_send:k"))
}

func TestAllow_CacheUnavailable(t *testing.T) {
	l, mr := newTestLimiter(t)
	mr.Close()
	ctx := context.Background()

	open := Policy{Name: "job_create", Limit: 1, Window: time.Minute, FailOpen: true}
	d, err := l.Allow(ctx, "user-1", open)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.Degraded)

	closed := Policy{Name: "profile_bootstrap", Limit: 1, Window: time.Minute, FailOpen: false}
	d, err = l.Allow(ctx, "user-1", closed)
	assert.Error(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, d.Degraded)
}
