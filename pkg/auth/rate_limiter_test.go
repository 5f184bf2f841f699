package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowEnforcesLimitPerKey(t *testing.T) {
	limiter := NewTokenBucketLimiter(2, time.Minute)
	defer limiter.Stop()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "key-a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "key-a")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other keys have their own bucket.
	allowed, err = limiter.Allow(ctx, "key-b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowRefillsAfterInterval(t *testing.T) {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  1,
		refillRate: 20 * time.Millisecond,
		stop:       make(chan struct{}),
	}
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, err = limiter.Allow(ctx, "key")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestResetClearsBucket(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, time.Minute)
	defer limiter.Stop()
	ctx := context.Background()

	limiter.Allow(ctx, "key")
	allowed, _ := limiter.Allow(ctx, "key")
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "key"))
	allowed, _ = limiter.Allow(ctx, "key")
	assert.True(t, allowed)
}

func TestStopTerminatesCleanup(t *testing.T) {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  1,
		refillRate: time.Minute,
		cleanupInt: 10 * time.Millisecond,
		stop:       make(chan struct{}),
	}
	go limiter.cleanup()
	ctx := context.Background()

	bucketCount := func() int {
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		return len(limiter.buckets)
	}

	limiter.Allow(ctx, "idle-key")
	assert.Eventually(t, func() bool { return bucketCount() == 0 },
		time.Second, 10*time.Millisecond, "idle bucket should be evicted while cleanup runs")

	limiter.Stop()
	limiter.Stop() // idempotent

	limiter.Allow(ctx, "post-stop-key")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, bucketCount(), "cleanup must not evict after Stop")

	// The limiter itself keeps working without its cleanup goroutine.
	allowed, err := limiter.Allow(ctx, "post-stop-key")
	require.NoError(t, err)
	assert.False(t, allowed)
}
