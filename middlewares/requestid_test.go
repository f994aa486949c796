package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/middlewares"
)

// tagRequest runs req through the RequestID middleware and returns the
// recorder plus the ID the handler observed.
func tagRequest(t *testing.T, req *http.Request, opts ...middlewares.RequestIDOption) (*httptest.ResponseRecorder, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	ctx := newTestContext(rec, req)

	var seen string
	err := middlewares.RequestID(opts...)(func(c internal.Context) error {
		seen = middlewares.GetRequestID(c)
		return nil
	})(ctx)
	require.NoError(t, err)
	return rec, seen
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("mints a UUID when no header carries one", func(t *testing.T) {
		t.Parallel()

		rec, seen := tagRequest(t, httptest.NewRequest(http.MethodGet, "/", nil))
		echoed := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, echoed)
		assert.Equal(t, echoed, seen)
		assert.NoError(t, uuid.Validate(echoed))
	})

	t.Run("reuses the inbound ID", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-123")

		rec, seen := tagRequest(t, req)
		assert.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "upstream-123", seen)
	})

	t.Run("checks the default headers in priority order", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		req.Header.Set("X-Correlation-ID", "corr-789")
		rec, _ := tagRequest(t, req)
		assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-789")
		rec, _ = tagRequest(t, req)
		assert.Equal(t, "corr-789", rec.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDOptions(t *testing.T) {
	t.Parallel()

	t.Run("custom headers replace the defaults", func(t *testing.T) {
		t.Parallel()

		opt := middlewares.WithRequestIDHeaders("X-Custom-ID", "X-Trace-ID")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Custom-ID", "custom-123")
		req.Header.Set("X-Trace-ID", "trace-456")
		rec, _ := tagRequest(t, req, opt)
		assert.Equal(t, "custom-123", rec.Header().Get("X-Request-ID"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "trace-456")
		rec, _ = tagRequest(t, req, opt)
		assert.Equal(t, "trace-456", rec.Header().Get("X-Request-ID"))

		// Default headers no longer count once the list is replaced.
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		rec, _ = tagRequest(t, req, opt)
		assert.NotEqual(t, "ignored", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator mints the ID", func(t *testing.T) {
		t.Parallel()

		rec, seen := tagRequest(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.WithRequestIDGenerator(func() string { return "minted-42" }),
		)
		assert.Equal(t, "minted-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "minted-42", seen)
	})

	t.Run("custom response header replaces X-Request-ID", func(t *testing.T) {
		t.Parallel()

		rec, _ := tagRequest(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.WithRequestIDResponseHeader("X-Custom-Response-ID"),
		)
		assert.NotEmpty(t, rec.Header().Get("X-Custom-Response-ID"))
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("options compose", func(t *testing.T) {
		t.Parallel()

		rec, _ := tagRequest(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.WithRequestIDHeaders("X-Trace-ID"),
			middlewares.WithRequestIDGenerator(func() string { return "generated-123" }),
			middlewares.WithRequestIDResponseHeader("X-Response-ID"),
		)
		assert.Equal(t, "generated-123", rec.Header().Get("X-Response-ID"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	t.Run("emits request_id after the middleware ran", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)

		require.NoError(t, middlewares.RequestID()(func(c internal.Context) error {
			return nil
		})(ctx))

		attr, ok := middlewares.RequestIDExtractor()(ctx.Context())
		require.True(t, ok)
		assert.Equal(t, "request_id", attr.Key)
		assert.NotEmpty(t, attr.Value.String())
	})

	t.Run("reports nothing on an untagged context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := newTestContext(httptest.NewRecorder(), req)

		_, ok := middlewares.RequestIDExtractor()(ctx.Context())
		assert.False(t, ok)

		assert.Empty(t, middlewares.GetRequestID(ctx))
	})
}
