package middlewares

import (
	"math"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/metrics"
)

type rateWindow struct {
	count int
	start time.Time
}

// FixedWindowLimiter counts requests per key within a fixed window. Expired
// windows are swept inline on every Allow call, so the table never needs a
// background goroutine.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string]*rateWindow
}

// NewFixedWindowLimiter creates a limiter allowing max requests per window.
func NewFixedWindowLimiter(window time.Duration, max int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		window:  window,
		max:     max,
		entries: make(map[string]*rateWindow),
	}
}

// Allow reports whether the key may make another request and counts it.
func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.start) >= l.window {
		l.entries[key] = &rateWindow{count: 1, start: now}
		return true
	}
	if entry.count >= l.max {
		return false
	}
	entry.count++
	return true
}

// RetryAfterSeconds returns the seconds until the key's window expires,
// rounded up. Keys with no active window return 0.
func (l *FixedWindowLimiter) RetryAfterSeconds(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return 0
	}
	remaining := l.window - time.Since(entry.start)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}

func (l *FixedWindowLimiter) sweep(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.start) >= l.window {
			delete(l.entries, key)
		}
	}
}

// RateLimitMiddleware limits requests per client IP using the given limiter.
func RateLimitMiddleware(limiter *FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateKey(c)

		if !limiter.Allow(key) {
			metrics.RateLimitedTotal.Inc()
			retryAfter := limiter.RetryAfterSeconds(key)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(429, gin.H{
				"error":      "rate_limited",
				"message":    "Too many requests",
				"retryAfter": retryAfter,
			})
			return
		}

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	ip := clientIP(c.ClientIP())
	if ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// Normalize IPv6-mapped IPv4 etc.
func clientIP(raw string) string {
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
