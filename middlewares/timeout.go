package middlewares

import (
	"context"
	"time"

	"github.com/bulwarkweb/bulwark/internal"
)

// DefaultTimeout is the deadline applied when none is given.
const DefaultTimeout = 30 * time.Second

// timeoutContextKey stores the deadline context for handlers to observe.
type timeoutContextKey struct{}

// Timeout returns middleware that bounds how long a handler may run. When
// the deadline passes first, the middleware raises a TimeoutError into the
// translation chain; the handler goroutine keeps running, so long operations
// should watch GetTimeoutContext(c).Done() and bail out.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				// Cancellation for any other reason (client gone, server
				// shutdown) is not a timeout and passes through as-is.
				if ctx.Err() == context.DeadlineExceeded {
					c.LogWarn("request timeout", "timeout", timeout.String())
					return &TimeoutError{Duration: timeout}
				}
				return ctx.Err()
			}
		}
	}
}

// GetTimeoutContext returns the deadline context installed by Timeout, or
// the plain request context when the middleware is not in the chain.
func GetTimeoutContext(c internal.Context) context.Context {
	if v, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return v
	}
	return c.Context()
}
