package middlewares

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace (nil if disabled)
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StackTrace returns the captured stack so the terminal handler can render it.
func (e *PanicError) StackTrace() []byte {
	return e.Stack
}

// TimeoutError represents a request timeout.
type TimeoutError struct {
	Duration time.Duration // The timeout that was exceeded
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// TokenMismatchError is raised when CSRF verification fails. It carries
// status 419, which has no standard reason phrase, so one is set here.
type TokenMismatchError struct{}

func (e *TokenMismatchError) Error() string {
	return "CSRF token mismatch"
}

func (e *TokenMismatchError) StatusCode() int {
	return 419
}

func (e *TokenMismatchError) ReasonPhrase() string {
	return "Page Expired"
}

// TooManyRequestsError is raised by the rate-limiting middleware when a key
// has exhausted its attempts.
type TooManyRequestsError struct {
	RetryAfter int // seconds until the caller may retry
	Limit      int // the configured attempt ceiling
}

func (e *TooManyRequestsError) Error() string {
	return "too many requests, retry " + retryAfterPhrase(e.RetryAfter)
}

func (e *TooManyRequestsError) StatusCode() int {
	return 429
}

// ValidationError carries field-level validation failures keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if msg := e.FirstMessage(); msg != "" {
		return msg
	}
	return "validation failed"
}

func (e *ValidationError) StatusCode() int {
	return 422
}

// FirstMessage returns the first message of the alphabetically first field,
// or empty when there are none. Sorting keeps the result deterministic.
func (e *ValidationError) FirstMessage() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Fields[k]) > 0 {
			return e.Fields[k][0]
		}
	}
	return ""
}

// IsPanicError returns true if the error is a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsTimeoutError returns true if the error is a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsTokenMismatchError returns true if the error is a TokenMismatchError.
func IsTokenMismatchError(err error) bool {
	var tm *TokenMismatchError
	return errors.As(err, &tm)
}

// IsTooManyRequestsError returns true if the error is a TooManyRequestsError.
func IsTooManyRequestsError(err error) bool {
	var tmr *TooManyRequestsError
	return errors.As(err, &tmr)
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsValidationError extracts the ValidationError from an error if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
