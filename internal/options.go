package internal

import (
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bulwarkweb/bulwark/pkg/logger"
	"github.com/bulwarkweb/bulwark/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
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
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServerFS(subFS)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets a custom error handler that runs before the terminal
// handler. Returning nil marks the error as handled; returning an error
// (the same or a translated one) passes it on to the terminal handler.
//
// Example:
//
//	bulwark.WithErrorHandler(func(c bulwark.Context, err error) error {
//	    var httpErr *bulwark.HTTPError
//	    if errors.As(err, &httpErr) {
//	        return c.String(httpErr.Code, httpErr.Message)
//	    }
//	    return err
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
//
// Example:
//
//	bulwark.WithNotFoundHandler(func(c bulwark.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
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
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
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
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.WithExtractors(extractors...)).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSession enables server-side session management.
// A session.Store implementation must be provided.
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
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithDebug enables debug fault rendering: diagnostic pages with error
// details and stack traces. Never enable in production.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.terminalOpts = append(a.terminalOpts, WithDebugMode(debug))
	}
}

// WithDebugRenderer injects a rich diagnostic renderer used as the first
// rendering tier when debug mode is on.
func WithDebugRenderer(r DebugRenderer) Option {
	return func(a *App) {
		a.terminalOpts = append(a.terminalOpts, WithTerminalRenderer(r))
	}
}

// WithFallbackLogOutput redirects the terminal handler's dependency-free
// fallback log channel. Defaults to stderr.
func WithFallbackLogOutput(w io.Writer) Option {
	return func(a *App) {
		a.terminalOpts = append(a.terminalOpts, WithFallbackOutput(w))
	}
}

// WithTerminalOptions passes extra options to the terminal handler.
func WithTerminalOptions(opts ...TerminalOption) Option {
	return func(a *App) {
		a.terminalOpts = append(a.terminalOpts, opts...)
	}
}
