package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/pkg/limiter"
)

// Default rate-limit window.
const (
	DefaultMaxAttempts = 60
	DefaultDecay       = time.Minute
)

// RateLimitConfig configures the rate-limiting middleware.
type RateLimitConfig struct {
	MaxAttempts int           // attempts allowed per window
	Decay       time.Duration // window length
	KeyPrefix   string        // optional namespace for the limiter keys
}

// RateLimitOption configures RateLimitConfig.
type RateLimitOption func(*RateLimitConfig)

// WithRateLimitMaxAttempts sets the attempts allowed per window.
func WithRateLimitMaxAttempts(n int) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		if n > 0 {
			cfg.MaxAttempts = n
		}
	}
}

// WithRateLimitDecay sets the window length.
func WithRateLimitDecay(d time.Duration) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		if d > 0 {
			cfg.Decay = d
		}
	}
}

// WithRateLimitKeyPrefix namespaces the limiter keys, letting several
// middleware instances share one backing store without collisions.
func WithRateLimitKeyPrefix(prefix string) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.KeyPrefix = prefix
	}
}

// RateLimit returns middleware that throttles requests per client IP, method,
// and path. Exhausted keys raise TooManyRequestsError before the handler
// runs; allowed requests are recorded and the response carries
// X-RateLimit-Limit, X-RateLimit-Remaining, and X-RateLimit-Reset headers.
func RateLimit(lim limiter.Limiter, opts ...RateLimitOption) internal.Middleware {
	cfg := &RateLimitConfig{
		MaxAttempts: DefaultMaxAttempts,
		Decay:       DefaultDecay,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			key := rateLimitKey(cfg.KeyPrefix, c)

			exhausted, err := lim.TooManyAttempts(c.Context(), key, cfg.MaxAttempts)
			if err != nil {
				// A broken limiter must not take the site down with it.
				c.LogError("rate limiter unavailable", "error", err)
				return next(c)
			}
			if exhausted {
				retryAfter, err := lim.AvailableIn(c.Context(), key)
				if err != nil {
					retryAfter = cfg.Decay
				}
				return &TooManyRequestsError{
					RetryAfter: int(retryAfter.Seconds()),
					Limit:      cfg.MaxAttempts,
				}
			}

			if err := lim.Hit(c.Context(), key, cfg.Decay); err != nil {
				c.LogError("rate limiter unavailable", "error", err)
				return next(c)
			}

			c.SetHeader("X-RateLimit-Limit", strconv.Itoa(cfg.MaxAttempts))
			if remaining, err := lim.Remaining(c.Context(), key, cfg.MaxAttempts); err == nil {
				c.SetHeader("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
			if resetAt, err := lim.AvailableAt(c.Context(), key); err == nil && resetAt > 0 {
				c.SetHeader("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}

			return next(c)
		}
	}
}

// rateLimitKey hashes the client identity so raw IPs and paths never reach
// the backing store.
func rateLimitKey(prefix string, c internal.Context) string {
	sum := sha256.Sum256([]byte(c.ClientIP() + "|" + c.Request().Method + "|" + c.Request().URL.Path))
	return prefix + hex.EncodeToString(sum[:])
}
