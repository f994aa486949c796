package limiter

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned when the backing store has been closed.
var ErrClosed = errors.New("limiter: closed")

// Limiter counts attempts per key within a decaying window.
//
// Implementations must be safe for concurrent use. The middleware layer only
// relies on this contract; the counting algorithm is the implementation's
// business.
type Limiter interface {
	// TooManyAttempts reports whether the key has reached maxAttempts.
	TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error)

	// Hit records an attempt. The first hit of a window starts its decay timer.
	Hit(ctx context.Context, key string, decay time.Duration) error

	// Remaining returns how many attempts are left before the key is limited.
	Remaining(ctx context.Context, key string, maxAttempts int) (int, error)

	// AvailableIn returns how long until the key's window resets.
	// Returns 0 when the key has no active window.
	AvailableIn(ctx context.Context, key string) (time.Duration, error)

	// AvailableAt returns the Unix time at which the key's window resets.
	// Returns 0 when the key has no active window.
	AvailableAt(ctx context.Context, key string) (int64, error)

	// Clear removes the key's counter.
	Clear(ctx context.Context, key string) error
}
