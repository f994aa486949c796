package middlewares

import (
	"runtime"

	"github.com/bulwarkweb/bulwark/internal"
)

// DefaultStackSize bounds the stack capture for recovered panics.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	// StackSize is the capture buffer in bytes.
	StackSize int

	// DisablePrintStack skips the capture entirely. The resulting
	// PanicError then carries no trace for the terminal handler to render.
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the stack capture buffer size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack turns off stack capture and logging.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that converts panics into PanicError values
// flowing out through the translation chain. The captured stack points at
// the panic site, so the terminal handler's debug pages and the emergency
// builder show where the failure originated rather than where it was caught.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var stack []byte
					if !cfg.DisablePrintStack {
						stack = make([]byte, cfg.StackSize)
						stack = stack[:runtime.Stack(stack, false)]
						c.LogError("panic recovered", "panic", r, "stack", string(stack))
					} else {
						c.LogError("panic recovered", "panic", r)
					}

					err = &PanicError{
						Value: r,
						Stack: stack,
					}
				}
			}()

			return next(c)
		}
	}
}
