package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/bulwarkweb/bulwark/internal"
)

// csrfSafeMethods never require token verification.
var csrfSafeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// defaultCSRFExtractor reads the token from the form field first, then the
// conventional headers.
var defaultCSRFExtractor = internal.NewExtractor(
	internal.FromForm("_token"),
	internal.FromHeader("X-CSRF-TOKEN"),
	internal.FromHeader("X-XSRF-TOKEN"),
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	// Exempt lists paths excluded from verification. A pattern matches
	// either exactly or, when it ends in "*", as a prefix.
	Exempt []string

	// Extractor reads the submitted token from the request.
	Extractor internal.Extractor
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFExempt adds paths excluded from CSRF verification.
func WithCSRFExempt(patterns ...string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Exempt = append(cfg.Exempt, patterns...)
	}
}

// WithCSRFExtractor replaces the default token extractor.
func WithCSRFExtractor(e internal.Extractor) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Extractor = e
	}
}

// CSRF returns middleware that verifies the session CSRF token on mutating
// requests. Safe methods and exempt paths pass through untouched. A missing
// session token or a token that fails the constant-time comparison raises
// TokenMismatchError, which the HTTPErrors translator renders as 419.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		Extractor: defaultCSRFExtractor,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if csrfSafeMethods[c.Request().Method] {
				return next(c)
			}
			if pathExempt(c.Request().URL.Path, cfg.Exempt) {
				return next(c)
			}

			sess, err := c.Session()
			if err != nil || sess == nil || sess.Token() == "" {
				return &TokenMismatchError{}
			}

			submitted, ok := cfg.Extractor.Extract(c)
			if !ok {
				return &TokenMismatchError{}
			}

			if subtle.ConstantTimeCompare([]byte(submitted), []byte(sess.Token())) != 1 {
				return &TokenMismatchError{}
			}

			return next(c)
		}
	}
}

// pathExempt reports whether path matches any exemption pattern. Patterns
// match exactly, or as a prefix when ending in "*".
func pathExempt(path string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
