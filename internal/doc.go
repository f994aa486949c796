// Package internal provides the core types and implementation for the
// Bulwark framework.
//
// This package is internal and should not be used directly. Import
// "github.com/bulwarkweb/bulwark" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates the application lifecycle, HTTP routing, and graceful shutdown
//   - Context: Provides request/response access and helper methods
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - HTTPError: Structured HTTP failure with status, reason phrase, and headers
//   - TerminalHandler: Last-resort error handler with tiered degradation
//   - EmergencyResponse: Dependency-free response builder below the last tier
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (h *Handler) show(c bulwark.Context) error {
//	    account, err := h.svc.Account(c, c.Param("id"))
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(200, account)
//	}
//
// # The Fault Pipeline
//
// Errors returned from handlers travel outward through the middleware chain.
// Translation middleware (middlewares.Errors, middlewares.RateLimitErrors,
// middlewares.ValidationErrors) convert the failures they recognize into
// responses. Whatever reaches the edge untranslated lands in the
// TerminalHandler, which logs exactly once and renders through degrading
// tiers: injected debug renderer, inline debug page, production page,
// emergency response. A per-request guard detects recursive faults and
// short-circuits them to a static 500.
//
// # Application Structure
//
// Create an application with New() and configure it using options:
//
//	app := internal.New(
//	    internal.WithMiddleware(recoverMW, errorsMW),
//	    internal.WithHandlers(authHandler, pageHandler),
//	    internal.WithHealthChecks(internal.WithReadinessCheck("redis", check)),
//	)
//	err := app.Run(":8080", internal.Logger(log))
//
// Handlers receive dependencies via constructor injection, not context
// helpers. This keeps handler logic explicit and testable.
//
// # Design Principles
//
//   - No magic: explicit code, no reflection-driven dispatch
//   - Constructor injection: all dependencies visible in main.go
//   - Errors as values: handlers return errors, the pipeline renders them
//   - A response always goes out: the terminal handler cannot fail open
//
// See the bulwark package documentation for the public API and usage examples.
package internal
