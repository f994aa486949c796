package internal

import "net/http"

// HTTPError represents an HTTP failure with all data needed for rendering.
// It implements the error interface and carries the status code, an optional
// reason phrase override, and extra response headers.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Reason overrides the standard status text. Needed for codes the
	// standard library has no text for, like 419.
	Reason string

	// Headers are extra response headers set when the error is rendered.
	Headers map[string]string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code (e.g. 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

// ReasonPhrase returns the override if set, the standard status text
// otherwise.
func (e *HTTPError) ReasonPhrase() string {
	if e.Reason != "" {
		return e.Reason
	}
	return http.StatusText(e.Code)
}

// HTTPHeaders returns extra headers to set on the rendered response.
func (e *HTTPError) HTTPHeaders() map[string]string {
	return e.Headers
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func WithReason(reason string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Reason = reason
	}
}

func WithHeader(name, value string) HTTPErrorOption {
	return func(e *HTTPError) {
		if e.Headers == nil {
			e.Headers = make(map[string]string)
		}
		e.Headers[name] = value
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusBadRequest, message), opts)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusUnauthorized, message), opts)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusForbidden, message), opts)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusNotFound, message), opts)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusConflict, message), opts)
}

// ErrPageExpired covers status 419, used for stale CSRF tokens. The standard
// library has no reason phrase for 419, so one is set explicitly.
func ErrPageExpired(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(419, message)
	e.Reason = "Page Expired"
	return applyOpts(e, opts)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusUnprocessableEntity, message), opts)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusTooManyRequests, message), opts)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusInternalServerError, message), opts)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyOpts(NewHTTPError(http.StatusServiceUnavailable, message), opts)
}

func applyOpts(e *HTTPError, opts []HTTPErrorOption) *HTTPError {
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Helper functions for error inspection.

func IsHTTPError(err error) bool {
	_, ok := err.(*HTTPError)
	return ok
}

// AsHTTPError extracts the HTTPError from an error if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr
	}
	return nil
}
