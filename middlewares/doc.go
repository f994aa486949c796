// Package middlewares provides HTTP middleware for Bulwark applications.
//
// Two groups live here. Infrastructure middleware (RequestID, Recover, CORS,
// Timeout) wraps every request with tracing, panic safety, and protocol
// plumbing. Translation middleware (HTTPErrors, TooManyRequests, Validation)
// converts the typed errors raised by guards and handlers into well-formed
// responses, while the producing guards (CSRF, RateLimit) raise those errors
// in the first place.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing and debugging.
// It checks incoming headers for existing IDs or generates a UUID.
//
//	app := bulwark.New(
//	    bulwark.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// Use RequestIDExtractor() with WithLogger for automatic request_id in logs:
//
//	app := bulwark.New(
//	    bulwark.WithLogger("api", middlewares.RequestIDExtractor()),
//	    bulwark.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover catches panics and converts them to PanicError, which carries the
// captured stack into the terminal handler's diagnostics.
//
// # Error translation
//
// Each translator owns exactly one error kind. HTTPErrors is the generic
// catch-all for anything exposing a status code (including HTTPError and
// TokenMismatchError); TooManyRequests and Validation produce richer
// responses with session flash data and redirects for browser clients, JSON
// for API clients. Errors no translator owns propagate to the terminal
// handler.
//
// # Producing guards
//
// CSRF verifies the session token on mutating requests and raises
// TokenMismatchError (rendered as 419 "Page Expired"). RateLimit throttles
// by hashed client identity and raises TooManyRequestsError when a key is
// exhausted.
//
//	app := bulwark.New(
//	    bulwark.WithSession(store),
//	    bulwark.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.HTTPErrors(),
//	        middlewares.TooManyRequests(),
//	        middlewares.Validation(),
//	        middlewares.CSRF(middlewares.WithCSRFExempt("/webhooks/*")),
//	        middlewares.RateLimit(limiter.NewMemory()),
//	    ),
//	)
//
// # Recommended Middleware Order
//
// Middleware runs outermost-first in the order given. Keep the translators
// outside the producers so raised errors pass through their owners on the
// way out:
//
//	bulwark.WithMiddleware(
//	    middlewares.CORS(),            // handle preflight before anything else
//	    middlewares.RequestID(),       // assign ID for all subsequent logging
//	    middlewares.Recover(),         // catch panics below
//	    middlewares.HTTPErrors(),      // generic status-code translator
//	    middlewares.TooManyRequests(), // throttle responses
//	    middlewares.Validation(),      // validation responses
//	    middlewares.CSRF(),            // raises TokenMismatchError
//	    middlewares.RateLimit(lim),    // raises TooManyRequestsError
//	    middlewares.Timeout(5*time.Second),
//	)
package middlewares
