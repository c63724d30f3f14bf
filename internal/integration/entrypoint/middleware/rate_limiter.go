// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"math"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/trip-planner/backend/internal/domain/error"
	"github.com/trip-planner/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxRequests is the default number of ledger writes per window.
	defaultMaxRequests = 60
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
	// pruneThreshold is the number of tracked clients above which expired
	// windows are swept on the next request.
	pruneThreshold = 1024
)

// window counts the requests of one client in the current fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter throttles ledger writes per client. Authenticated requests are
// keyed by user ID, anonymous ones by client IP.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	length      time.Duration
	disabled    bool
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxRequests, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
// Limiting is switched off in E2E mode and in the test environment.
func NewRateLimiterWithConfig(maxRequests int, windowDuration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		length:      windowDuration,
		disabled:    os.Getenv("E2E_MODE") == "true" || os.Getenv("ENV") == "test",
		now:         time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.disabled {
			c.Next()
			return
		}

		key, ok := GetUserIDFromContext(c)
		if !ok {
			key = c.ClientIP()
		}

		remaining, retryAfter := rl.take(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

// take consumes one request for key. It returns the requests left in the
// window, and how long to wait when the limit is already reached.
func (rl *RateLimiter) take(key string) (int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.windows) > pruneThreshold {
		rl.prune(now)
	}

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.length)}
		rl.windows[key] = w
	}

	if w.count >= rl.maxRequests {
		return 0, w.resetAt.Sub(now)
	}
	w.count++
	return rl.maxRequests - w.count, 0
}

// prune drops windows that have already ended. Callers hold mu.
func (rl *RateLimiter) prune(now time.Time) {
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}
