// middleware/rate_limiter.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter is a per-IP token bucket with stricter buckets for sensitive
// routes. An IP that exhausts its bucket is blocked for blockDuration.
type RateLimiter struct {
	mu             sync.Mutex
	buckets        map[string]*rate.Limiter
	blocked        map[string]time.Time
	defaultLimit   endpointLimit
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets:       make(map[string]*rate.Limiter),
		blocked:       make(map[string]time.Time),
		defaultLimit:  endpointLimit{limit: rate.Every(100 * time.Millisecond), burst: 20},
		blockDuration: 5 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			// Brute force protection.
			"/api/auth/login":    {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/register": {limit: rate.Every(500 * time.Millisecond), burst: 5},
			// Reminders fan out to push and email.
			"/api/admin/cart-tracking/notify": {limit: rate.Every(time.Second), burst: 10},
		},
		now: time.Now,
	}
}

// SetLimit overrides the bucket for a route pattern.
func (r *RateLimiter) SetLimit(path string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endpointLimits[path] = endpointLimit{limit: limit, burst: burst}
}

func (r *RateLimiter) String() string { return "rate-limiter-cleanup" }

// Serve drops expired blocks and idle buckets until ctx is done.
func (r *RateLimiter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, until := range r.blocked {
		if now.After(until) {
			delete(r.blocked, ip)
		}
	}
	for key, l := range r.buckets {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(r.buckets, key)
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			path := c.Path()

			r.mu.Lock()
			now := r.now()
			if until, ok := r.blocked[ip]; ok {
				if now.Before(until) {
					r.mu.Unlock()
					return tooManyRequests(c, until.Sub(now))
				}
				delete(r.blocked, ip)
			}
			cfg, special := r.endpointLimits[path]
			key := ip
			if special {
				key = ip + " " + path
			} else {
				cfg = r.defaultLimit
			}
			bucket, ok := r.buckets[key]
			if !ok {
				bucket = rate.NewLimiter(cfg.limit, cfg.burst)
				r.buckets[key] = bucket
			}
			allowed := bucket.AllowN(now, 1)
			if !allowed {
				r.blocked[ip] = now.Add(r.blockDuration)
			}
			r.mu.Unlock()

			if !allowed {
				logging.Ctx(c.Request().Context()).Warn().Str("ip", ip).Str("path", path).Msg("rate limit exceeded")
				return tooManyRequests(c, r.blockDuration)
			}
			return next(c)
		}
	}
}

func tooManyRequests(c echo.Context, retryAfter time.Duration) error {
	c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
	})
}
