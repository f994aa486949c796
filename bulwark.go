package bulwark

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/bulwarkweb/bulwark/internal"
	"github.com/bulwarkweb/bulwark/pkg/health"
	"github.com/bulwarkweb/bulwark/pkg/logger"
	"github.com/bulwarkweb/bulwark/pkg/session"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, the fault pipeline, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers before the terminal handler.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError represents an HTTP failure with status, message, reason
	// phrase, and extra headers.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// TerminalHandler is the last line of fault handling: it logs and renders
	// anything no translator owned, and can never itself fail a request.
	TerminalHandler = internal.TerminalHandler

	// TerminalOption configures the terminal handler.
	TerminalOption = internal.TerminalOption

	// DebugRenderer produces rich diagnostic bodies for the terminal
	// handler's first rendering tier.
	DebugRenderer = internal.DebugRenderer

	// EmergencyResponse is the dependency-free last-resort response builder.
	EmergencyResponse = internal.EmergencyResponse

	// Extractor reads a value from a request, trying sources in order.
	Extractor = internal.Extractor

	// ExtractorSource extracts a single value from the request context.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter with status tracking and
	// before-write hooks.
	ResponseWriter = internal.ResponseWriter
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := bulwark.New(
//	    bulwark.WithSession(session.NewMemoryStore()),
//	    bulwark.WithMiddleware(middlewares.Recover(), middlewares.HTTPErrors()),
//	    bulwark.WithHandlers(
//	        handlers.NewAccount(svc),
//	        handlers.NewPages(svc),
//	    ),
//	)
//
//	err := app.Run(":8080", bulwark.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewTerminalHandler creates a standalone terminal handler, for wiring the
// fault pipeline outside an App (workers, CLIs).
func NewTerminalHandler(opts ...TerminalOption) *TerminalHandler {
	return internal.NewTerminalHandler(opts...)
}

// NewEmergencyResponse creates the dependency-free response builder.
func NewEmergencyResponse(debug bool) *EmergencyResponse {
	return internal.NewEmergencyResponse(debug)
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	bulwark.New(
//	    bulwark.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler that runs before the terminal
// handler. Returning nil marks the error as handled.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	bulwark.WithHealthChecks(
//	    bulwark.WithReadinessCheck("redis", redisCheck),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	bulwark.New(
//	    bulwark.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithDebug enables debug fault rendering: diagnostic pages with error
// details and stack traces. Never enable in production.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithDebugRenderer injects a rich diagnostic renderer used as the first
// rendering tier when debug mode is on.
func WithDebugRenderer(r DebugRenderer) Option {
	return internal.WithDebugRenderer(r)
}

// WithFallbackLogOutput redirects the terminal handler's dependency-free
// fallback log channel. Defaults to stderr.
func WithFallbackLogOutput(w io.Writer) Option {
	return internal.WithFallbackLogOutput(w)
}

// WithTerminalOptions passes extra options to the app's terminal handler.
func WithTerminalOptions(opts ...TerminalOption) Option {
	return internal.WithTerminalOptions(opts...)
}

// Terminal handler options

// WithTerminalLogger sets the structured logger for fault reports.
func WithTerminalLogger(l *slog.Logger) TerminalOption {
	return internal.WithTerminalLogger(l)
}

// WithDebugMode toggles diagnostic detail in rendered fault pages.
func WithDebugMode(debug bool) TerminalOption {
	return internal.WithDebugMode(debug)
}

// WithTerminalRenderer injects the first-tier debug renderer.
func WithTerminalRenderer(r DebugRenderer) TerminalOption {
	return internal.WithTerminalRenderer(r)
}

// WithFallbackOutput redirects the dependency-free fallback log channel.
func WithFallbackOutput(w io.Writer) TerminalOption {
	return internal.WithFallbackOutput(w)
}

// WithReportThreshold sets the level at which Report escalates a diagnostic
// to a full fault report. Defaults to slog.LevelError.
func WithReportThreshold(level slog.Level) TerminalOption {
	return internal.WithReportThreshold(level)
}

// WithExitFunc overrides the process-exit function used by HandleFatal.
func WithExitFunc(fn func(int)) TerminalOption {
	return internal.WithExitFunc(fn)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server runtime logger.
// If nil, runtime logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the listener opens.
// Hooks are called in the order they were registered. A failing hook aborts
// startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// HTTP errors

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// WithReason overrides the standard reason phrase for the status code.
func WithReason(reason string) HTTPErrorOption {
	return internal.WithReason(reason)
}

// WithHeader adds a response header to set when the error is rendered.
func WithHeader(name, value string) HTTPErrorOption {
	return internal.WithHeader(name, value)
}

// WithRequestID attaches the request tracking ID to the error.
func WithRequestID(id string) HTTPErrorOption {
	return internal.WithRequestID(id)
}

// WithError attaches the underlying cause for logging.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

// ErrPageExpired covers status 419, used for stale CSRF tokens.
func ErrPageExpired(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrPageExpired(message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrTooManyRequests(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(message, opts...)
}

// IsHTTPError returns true if the error is an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError extracts the HTTPError from an error if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Extractor sources

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromParam returns a source that reads from a URL parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromForm returns a source that reads from a form field.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromBearerToken returns a source that reads a Bearer token from the
// Authorization header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := bulwark.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Session options

// WithSession enables server-side session management.
// A SessionStore implementation must be provided.
// Sessions are loaded lazily and saved automatically before the response is written.
//
// Example:
//
//	bulwark.New(
//	    bulwark.WithSession(session.NewMemoryStore(),
//	        bulwark.WithSessionCookieName("__sid"),
//	        bulwark.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name.
// Defaults to "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session max age in seconds.
// Defaults to 30 days.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionPath sets the session cookie path.
// Defaults to "/".
func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

// WithSessionSecure sets the session cookie Secure flag.
// Defaults to false (should be true in production with HTTPS).
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
// Defaults to true (recommended for security).
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return internal.WithSessionHTTPOnly(httpOnly)
}

// WithSessionSameSite sets the session cookie SameSite attribute.
// Defaults to SameSiteLaxMode.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// Session errors for checking return values.
var (
	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
	ErrSessionInvalidToken  = session.ErrInvalidToken
)

// SessionValue is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
//
// Example:
//
//	theme, err := bulwark.SessionValue[string](sess, "theme")
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
//
// Example:
//
//	theme := bulwark.SessionValueOr(sess, "theme", "light")
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}
