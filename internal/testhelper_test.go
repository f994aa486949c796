package internal

import (
	"net/http"
	"net/http/httptest"
)

// newTestContext builds a requestContext the way the router adapter does,
// backed by a recorder.
func newTestContext(r *http.Request, opts ...Option) (*requestContext, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	app := New(opts...)
	return newContext(rec, r, app), rec
}
