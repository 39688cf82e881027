package importer

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuota(t *testing.T, perWindow int) (*Quota, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewQuota(client, &QuotaConfig{
		ImportsPerWindow: perWindow,
		WindowDuration:   time.Hour,
	}), mr
}

func TestQuotaAllowsUpToLimit(t *testing.T) {
	q, _ := newQuota(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := q.Allow(ctx, 1)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestQuotaIsPerUser(t *testing.T) {
	q, _ := newQuota(t, 1)
	ctx := context.Background()

	allowed, err := q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different user has their own counter.
	allowed, err = q.Allow(ctx, 2)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaRemainingAndReset(t *testing.T) {
	q, _ := newQuota(t, 5)
	ctx := context.Background()

	remaining, err := q.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = q.Allow(ctx, 1)
	require.NoError(t, err)
	remaining, err = q.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	require.NoError(t, q.Reset(ctx, 1))
	remaining, err = q.Remaining(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestQuotaWindowExpires(t *testing.T) {
	q, mr := newQuota(t, 1)
	ctx := context.Background()

	allowed, err := q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, err = q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Hour)

	allowed, err = q.Allow(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaFailsOpenWhenRedisDown(t *testing.T) {
	q, mr := newQuota(t, 1)
	mr.Close()

	allowed, err := q.Allow(context.Background(), 1)
	assert.Error(t, err)
	assert.True(t, allowed)
}
