package middleware

import (
	"net/http"
	"sync"
	"time"

	"law_dashboard_go/templates/components"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// rateLimitEntry tracks request count and window expiration
type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// RateLimiter is a per-endpoint rate limiter
type RateLimiter struct {
	config RateLimitConfig
	store  map[string]*rateLimitEntry
	mu     sync.Mutex
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	return &RateLimiter{
		config: config,
		store:  make(map[string]*rateLimitEntry),
		now:    time.Now,
	}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return rl.WithFallback(nil)
}

// WithFallback is Middleware with a custom answer for plain (non-htmx)
// requests over the limit. htmx requests always get a 429 with a toast.
func (rl *RateLimiter) WithFallback(fallback func(c echo.Context, message string) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(rl.config.KeyFunc(c)) {
				if IsHTMX(c) {
					toast := components.NewToast(rl.config.Message, "", components.ToastDestructive)
					c.Response().Header().Set("HX-Trigger", toast.TriggerHeader())
					return c.NoContent(http.StatusTooManyRequests)
				}
				if fallback != nil {
					return fallback(c, rl.config.Message)
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// Allow records one request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.store[key]
	if !exists || now.After(entry.expiresAt) {
		rl.store[key] = &rateLimitEntry{count: 1, expiresAt: now.Add(rl.config.Window)}
		return true
	}
	if entry.count >= rl.config.Requests {
		return false
	}
	entry.count++
	return true
}

// Cleanup removes expired entries and returns how many were dropped. The
// session cleanup job calls it on its schedule.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, entry := range rl.store {
		if now.After(entry.expiresAt) {
			delete(rl.store, key)
			removed++
		}
	}
	return removed
}

// SessionOrIP keys requests by session cookie, falling back to the client IP
func SessionOrIP(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return "session:" + cookie.Value
	}
	return "ip:" + c.RealIP()
}

// ExportRateLimiter throttles report exports, each of which drives a
// headless browser, to 6 per minute per session
var ExportRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 6,
	Window:   1 * time.Minute,
	KeyFunc:  SessionOrIP,
	Message:  "Too many exports. Please wait a minute before trying again.",
})
