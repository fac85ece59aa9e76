package middlewares

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 3)

	assert.True(t, limiter.Allow("ip:1.2.3.4"))
	assert.True(t, limiter.Allow("ip:1.2.3.4"))
	assert.True(t, limiter.Allow("ip:1.2.3.4"))
	assert.False(t, limiter.Allow("ip:1.2.3.4"))
}

func TestFixedWindowLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 1)

	assert.True(t, limiter.Allow("ip:1.2.3.4"))
	assert.False(t, limiter.Allow("ip:1.2.3.4"))
	assert.True(t, limiter.Allow("ip:5.6.7.8"))
}

func TestFixedWindowLimiterWindowExpiry(t *testing.T) {
	limiter := NewFixedWindowLimiter(20*time.Millisecond, 1)

	assert.True(t, limiter.Allow("ip:1.2.3.4"))
	assert.False(t, limiter.Allow("ip:1.2.3.4"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("ip:1.2.3.4"))
}

func TestFixedWindowLimiterRetryAfter(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Minute, 1)

	assert.Zero(t, limiter.RetryAfterSeconds("ip:1.2.3.4"))

	limiter.Allow("ip:1.2.3.4")
	retryAfter := limiter.RetryAfterSeconds("ip:1.2.3.4")
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestFixedWindowLimiterSweepsExpiredWindows(t *testing.T) {
	limiter := NewFixedWindowLimiter(10*time.Millisecond, 1)

	limiter.Allow("ip:1.2.3.4")
	limiter.Allow("ip:5.6.7.8")
	time.Sleep(20 * time.Millisecond)

	// any Allow call sweeps the expired table
	limiter.Allow("ip:9.9.9.9")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.entries, 1)
}
