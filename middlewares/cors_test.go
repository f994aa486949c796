package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/middlewares"
)

// crossOrigin sends a request with the given origin through the middleware
// and returns the recorder plus whether the inner handler ran.
func crossOrigin(t *testing.T, mw internal.Middleware, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", "POST")
	}
	rec := httptest.NewRecorder()
	ctx := newTestContext(rec, req)

	called := false
	err := mw(func(c internal.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(ctx)
	require.NoError(t, err)
	return rec, called
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("wildcard default admits any origin", func(t *testing.T) {
		t.Parallel()

		rec, called := crossOrigin(t, middlewares.CORS(), http.MethodGet, "http://example.com")
		assert.True(t, called)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Values("Vary"), "Origin")
	})

	t.Run("same-origin requests stay undecorated", func(t *testing.T) {
		t.Parallel()

		rec, called := crossOrigin(t, middlewares.CORS(), http.MethodGet, "")
		assert.True(t, called)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow-list echoes the matching origin and drops the rest", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(
			middlewares.WithAllowOrigins("http://app1.example.com", "http://app2.example.com"),
		)

		rec, _ := crossOrigin(t, mw, http.MethodGet, "http://app1.example.com")
		assert.Equal(t, "http://app1.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		rec, called := crossOrigin(t, mw, http.MethodGet, "http://blocked.com")
		assert.True(t, called)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin func replaces the static list", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(
			middlewares.WithAllowOrigins("http://static.com"),
			middlewares.WithAllowOriginFunc(func(origin string) bool {
				return origin == "http://dynamic.com"
			}),
		)

		rec, _ := crossOrigin(t, mw, http.MethodGet, "http://dynamic.com")
		assert.Equal(t, "http://dynamic.com", rec.Header().Get("Access-Control-Allow-Origin"))

		// The static entry no longer counts once the func is installed.
		rec, _ = crossOrigin(t, mw, http.MethodGet, "http://static.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

		always := middlewares.CORS(middlewares.WithAllowOriginFunc(func(string) bool { return false }))
		rec, _ = crossOrigin(t, always, http.MethodGet, "http://any.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers without invoking the handler", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(
			middlewares.WithAllowMethods("GET", "POST", "PUT"),
			middlewares.WithAllowHeaders("Content-Type", "X-Custom-Header"),
			middlewares.WithMaxAge(time.Hour),
		)

		rec, called := crossOrigin(t, mw, http.MethodOptions, "http://example.com")
		assert.False(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, POST, PUT", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Custom-Header", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

		vary := rec.Header().Values("Vary")
		assert.Contains(t, vary, "Origin")
		assert.Contains(t, vary, "Access-Control-Request-Method")
		assert.Contains(t, vary, "Access-Control-Request-Headers")
	})

	t.Run("credentials force the origin echo", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowCredentials())

		rec, _ := crossOrigin(t, mw, http.MethodGet, "http://example.com")
		assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("expose headers reach simple responses", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithExposeHeaders("X-Custom-Response", "X-Request-Id"))

		rec, _ := crossOrigin(t, mw, http.MethodGet, "http://example.com")
		assert.Equal(t, "X-Custom-Response, X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("full configuration on preflight", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(
			middlewares.WithAllowOrigins("http://app.example.com"),
			middlewares.WithAllowMethods("GET", "POST"),
			middlewares.WithAllowHeaders("Content-Type", "Authorization"),
			middlewares.WithExposeHeaders("X-Request-Id"),
			middlewares.WithAllowCredentials(),
			middlewares.WithMaxAge(30*time.Minute),
		)

		rec, _ := crossOrigin(t, mw, http.MethodOptions, "http://app.example.com")
		assert.Equal(t, "http://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "1800", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("actual requests flow through to the handler", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, req)

		err := middlewares.CORS()(func(c internal.Context) error {
			return c.String(http.StatusOK, "response")
		})(ctx)
		require.NoError(t, err)
		assert.Equal(t, "response", rec.Body.String())
	})
}
