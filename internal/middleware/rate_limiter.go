package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"vidtube/internal/apierror"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter controls how frequently a caller may perform an action.
type RateLimiter interface {
	Allow(key string) bool
}

// ipRateLimiter tracks request rates per key with expiration.
type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewIPRateLimiter allows up to requests events per window, plus burst, per key.
// Idle keys are forgotten after ttl.
func NewIPRateLimiter(requests int, window time.Duration, burst int, ttl time.Duration) RateLimiter {
	return newIPRateLimiter(requests, window, burst, ttl, time.Now)
}

func newIPRateLimiter(requests int, window time.Duration, burst int, ttl time.Duration, now func() time.Time) *ipRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    burst,
		ttl:      ttl,
		now:      now,
	}
}

func (l *ipRateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := l.now()

	l.mu.Lock()
	v := l.visitorLocked(key, now)
	l.gcLocked(now)
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) visitorLocked(key string, now time.Time) *visitor {
	if v, ok := l.visitors[key]; ok {
		v.lastSeen = now
		return v
	}
	v := &visitor{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
	l.visitors[key] = v
	return v
}

func (l *ipRateLimiter) gcLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
		}
	}
}

// RateLimit rejects callers that exceed limiter with 429, keyed by client IP.
func RateLimit(limiter RateLimiter, window time.Duration) fiber.Handler {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return apierror.New(fiber.StatusTooManyRequests, "Too many requests, try again later")
		}
		return c.Next()
	}
}
