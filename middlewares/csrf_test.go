package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/middlewares"
	"github.com/bulwarkweb/bulwark/pkg/session"
)

func sessionWithToken(token string) *session.Session {
	sess := session.New("sid-test", time.Now().Add(time.Hour))
	sess.SetToken(token)
	return sess
}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCSRF(t *testing.T) {
	t.Parallel()

	okHandler := func(c internal.Context) error { return nil }

	t.Run("matching form token passes", func(t *testing.T) {
		t.Parallel()

		req := formRequest(http.MethodPost, "/submit", "_token=abc")
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		handler := middlewares.CSRF()(okHandler)
		require.NoError(t, handler(ctx))
	})

	t.Run("wrong token raises 419", func(t *testing.T) {
		t.Parallel()

		req := formRequest(http.MethodPost, "/submit", "_token=xyz")
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		err := middlewares.CSRF()(okHandler)(ctx)
		require.Error(t, err)
		require.True(t, middlewares.IsTokenMismatchError(err))

		var tm *middlewares.TokenMismatchError
		require.ErrorAs(t, err, &tm)
		require.Equal(t, 419, tm.StatusCode())
		require.Equal(t, "Page Expired", tm.ReasonPhrase())
	})

	t.Run("get without token always passes", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		require.NoError(t, middlewares.CSRF()(okHandler)(ctx))
	})

	t.Run("head options trace are exempt", func(t *testing.T) {
		t.Parallel()

		for _, method := range []string{http.MethodHead, http.MethodOptions, http.MethodTrace} {
			req := httptest.NewRequest(method, "/page", nil)
			ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
			require.NoError(t, middlewares.CSRF()(okHandler)(ctx), method)
		}
	})

	t.Run("header token is accepted", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-CSRF-TOKEN", "abc")
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		require.NoError(t, middlewares.CSRF()(okHandler)(ctx))
	})

	t.Run("xsrf header is the last fallback", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("X-XSRF-TOKEN", "abc")
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		require.NoError(t, middlewares.CSRF()(okHandler)(ctx))
	})

	t.Run("form token wins over headers", func(t *testing.T) {
		t.Parallel()

		req := formRequest(http.MethodPost, "/submit", "_token=abc")
		req.Header.Set("X-CSRF-TOKEN", "wrong")
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		require.NoError(t, middlewares.CSRF()(okHandler)(ctx))
	})

	t.Run("missing token raises", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		err := middlewares.CSRF()(okHandler)(ctx)
		require.True(t, middlewares.IsTokenMismatchError(err))
	})

	t.Run("no session raises", func(t *testing.T) {
		t.Parallel()

		req := formRequest(http.MethodPost, "/submit", "_token=abc")
		ctx := newTestContext(httptest.NewRecorder(), req)

		err := middlewares.CSRF()(okHandler)(ctx)
		require.True(t, middlewares.IsTokenMismatchError(err))
	})

	t.Run("exact exemption match", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", nil)
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))

		handler := middlewares.CSRF(middlewares.WithCSRFExempt("/webhooks/stripe"))(okHandler)
		require.NoError(t, handler(ctx))
	})

	t.Run("wildcard exemption is a prefix match", func(t *testing.T) {
		t.Parallel()

		handler := middlewares.CSRF(middlewares.WithCSRFExempt("/webhooks/*"))(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/github/push", nil)
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
		require.NoError(t, handler(ctx))

		// Outside the prefix, verification still applies.
		req = httptest.NewRequest(http.MethodPost, "/settings", nil)
		ctx = newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
		require.True(t, middlewares.IsTokenMismatchError(handler(ctx)))
	})

	t.Run("custom extractor replaces the default sources", func(t *testing.T) {
		t.Parallel()

		// A SPA that carries the token in the query string or as a bearer
		// token instead of the form field.
		handler := middlewares.CSRF(middlewares.WithCSRFExtractor(internal.NewExtractor(
			internal.FromQuery("csrf"),
			internal.FromBearerToken(),
		)))(okHandler)

		req := httptest.NewRequest(http.MethodPost, "/submit?csrf=abc", nil)
		ctx := newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
		require.NoError(t, handler(ctx))

		req = httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("Authorization", "Bearer abc")
		ctx = newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
		require.NoError(t, handler(ctx))

		// The default form source is no longer consulted.
		req = formRequest(http.MethodPost, "/submit", "_token=abc")
		ctx = newSessionTestContext(httptest.NewRecorder(), req, sessionWithToken("abc"))
		require.True(t, middlewares.IsTokenMismatchError(handler(ctx)))
	})
}
