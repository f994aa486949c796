// Package bulwark is a small web framework built around a fault-handling
// pipeline: every failure raised while processing a request is converted,
// without ever itself failing, into a well-formed response.
//
// Three layers cooperate. Typed errors (HTTPError and the middleware error
// kinds) describe what went wrong with enough context to render a response.
// Translation middleware converts each error kind into its protocol response:
// JSON for API clients, redirects with session flash data for browsers,
// plain text for everything else. The terminal handler catches whatever no
// translator owned, logs it exactly once, and renders through a graduated
// fallback chain that ends in a dependency-free static response.
//
// # Quick Start
//
// Create an application with bulwark.New(), configure it with options, and
// call Run() to start the HTTP server:
//
//	app := bulwark.New(
//	    bulwark.WithLogger("web", middlewares.RequestIDExtractor()),
//	    bulwark.WithSession(session.NewMemoryStore()),
//	    bulwark.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.HTTPErrors(),
//	    ),
//	    bulwark.WithHandlers(
//	        handlers.NewPages(svc),
//	    ),
//	)
//
//	if err := app.Run(":8080", bulwark.Logger(slog)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type Pages struct{ svc *Service }
//
//	func (h *Pages) Routes(r bulwark.Router) {
//	    r.GET("/", h.home)
//	    r.POST("/signup", h.signup)
//	}
//
// Route handlers return errors instead of writing failure responses
// themselves:
//
//	func (h *Pages) signup(c bulwark.Context) error {
//	    if errs := h.svc.ValidateSignup(c); len(errs) > 0 {
//	        return &middlewares.ValidationError{Fields: errs}
//	    }
//	    return c.Redirect(http.StatusFound, "/welcome")
//	}
//
// # Fault handling
//
// Errors flow outward through the middleware chain. Each translator owns one
// error kind; unowned errors reach the terminal handler, which picks a render
// tier by debug mode and renderer availability, degrading tier by tier down
// to a static "Internal Server Error". A per-request recursion guard keeps a
// fault raised during fault rendering from looping.
//
// Debug mode (WithDebug) switches rendered faults from the production
// "Server Error" page to diagnostic pages with the error type, message, and
// stack trace. Keep it off in production.
//
// # Sessions
//
// WithSession enables cookie-backed server-side sessions with flash data,
// CSRF tokens, and previous-URL tracking. Sessions load lazily on first use
// and persist automatically just before the response is written.
package bulwark
