package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/middlewares"
)

func TestHTTPErrors(t *testing.T) {
	t.Parallel()

	t.Run("renders status code and message as plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/users/42", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			return internal.ErrNotFound("user not found")
		})

		require.NoError(t, handler(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		require.Equal(t, "user not found", rec.Body.String())
	})

	t.Run("empty message falls back to the reason phrase", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			return internal.ErrPageExpired("")
		})

		require.NoError(t, handler(ctx))
		require.Equal(t, 419, rec.Code)
		require.Equal(t, "Page Expired", rec.Body.String())
	})

	t.Run("token mismatch renders as 419", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			return &middlewares.TokenMismatchError{}
		})

		require.NoError(t, handler(ctx))
		require.Equal(t, 419, rec.Code)
		require.Equal(t, "CSRF token mismatch", rec.Body.String())
	})

	t.Run("error headers are applied", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			return internal.ErrUnauthorized("login required",
				internal.WithHeader("WWW-Authenticate", `Bearer realm="api"`))
		})

		require.NoError(t, handler(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, `Bearer realm="api"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("plain errors pass through untouched", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		sentinel := errors.New("database gone")
		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			return sentinel
		})

		require.Equal(t, sentinel, handler(ctx))
		require.False(t, ctx.Written())
	})

	t.Run("written response is left alone", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ctx := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error {
			_ = c.String(http.StatusOK, "partial")
			return internal.ErrInternal("late failure")
		})

		require.NoError(t, handler(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "partial", rec.Body.String())
	})

	t.Run("nil error is untouched", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		handler := middlewares.HTTPErrors()(func(c internal.Context) error { return nil })
		require.NoError(t, handler(ctx))
	})
}
