package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/bulwarkweb/bulwark/pkg/logger"
)

// DebugRenderer renders rich diagnostic responses in debug mode. Typically
// backed by a template engine or an error-page package; the terminal handler
// treats it as untrusted and falls through when it fails.
type DebugRenderer interface {
	RenderJSON(err error, r *http.Request) ([]byte, error)
	RenderHTML(err error, r *http.Request) ([]byte, error)
}

// stackTracer is implemented by errors carrying a captured stack,
// like recovered panics.
type stackTracer interface {
	StackTrace() []byte
}

// TerminalHandler is the last-resort error handler. Whatever the translation
// middleware chain could not turn into a response lands here and always
// produces exactly one log entry and one response.
//
// Rendering degrades through tiers: an injected debug renderer, an inline
// debug page, a bare production page, and finally the emergency builder.
// A failure in any tier drops to the next; nothing escapes.
type TerminalHandler struct {
	logger    *slog.Logger
	fallback  *logger.Fallback
	renderer  DebugRenderer
	emergency *EmergencyResponse
	exit      func(int)
	threshold slog.Level
	debug     bool
}

// TerminalOption configures the TerminalHandler.
type TerminalOption func(*TerminalHandler)

// WithTerminalLogger sets the structured logger for fault reports.
func WithTerminalLogger(l *slog.Logger) TerminalOption {
	return func(h *TerminalHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithDebugMode enables debug rendering: diagnostic pages with messages and
// stack traces instead of the bare production response.
func WithDebugMode(debug bool) TerminalOption {
	return func(h *TerminalHandler) {
		h.debug = debug
	}
}

// WithTerminalRenderer injects a rich diagnostic renderer used as the first
// rendering tier in debug mode.
func WithTerminalRenderer(r DebugRenderer) TerminalOption {
	return func(h *TerminalHandler) {
		h.renderer = r
	}
}

// WithFallbackOutput redirects the dependency-free fallback log channel.
// Defaults to stderr.
func WithFallbackOutput(w io.Writer) TerminalOption {
	return func(h *TerminalHandler) {
		h.fallback = logger.NewFallback(w)
	}
}

// WithReportThreshold sets the level at which Report escalates diagnostics
// into full fault reports. Defaults to slog.LevelError.
func WithReportThreshold(level slog.Level) TerminalOption {
	return func(h *TerminalHandler) {
		h.threshold = level
	}
}

// WithExitFunc overrides the process exit used by HandleFatal. For tests.
func WithExitFunc(exit func(int)) TerminalOption {
	return func(h *TerminalHandler) {
		if exit != nil {
			h.exit = exit
		}
	}
}

// NewTerminalHandler creates a terminal handler with a noop logger and
// stderr fallback by default.
func NewTerminalHandler(opts ...TerminalOption) *TerminalHandler {
	h := &TerminalHandler{
		logger:    logger.NewNope(),
		fallback:  logger.NewFallback(nil),
		exit:      os.Exit,
		threshold: slog.LevelError,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.emergency = NewEmergencyResponse(h.debug)
	return h
}

// handlingGuard marks a request as currently inside the terminal handler.
// The guard lives on the request context, so concurrent requests never
// observe each other's state.
type handlingGuard struct {
	active bool
}

type handlingGuardKey struct{}

// Handle processes an error that survived the whole middleware chain.
// Always returns nil: past this point there is nobody left to return to.
func (h *TerminalHandler) Handle(c Context, err error) error {
	if err == nil {
		return nil
	}

	// Recursive entry means handling the previous fault itself faulted.
	// Log on the channel that cannot fail and short-circuit.
	if g, ok := c.Get(handlingGuardKey{}).(*handlingGuard); ok && g.active {
		h.fallback.Write("recursive fault while handling request "+c.Request().URL.Path, err)
		if !c.Written() {
			WriteStaticFallback(c.Response())
		}
		return nil
	}

	guard := &handlingGuard{active: true}
	c.Set(handlingGuardKey{}, guard)
	defer func() { guard.active = false }()

	h.log(c.Context(), c.Request(), err)
	h.render(c, err)
	return nil
}

// Report logs a non-fatal diagnostic without rendering anything. Levels at
// or above the threshold go through the same degradation-protected path as
// full fault reports.
func (h *TerminalHandler) Report(ctx context.Context, level slog.Level, err error) {
	if err == nil {
		return
	}
	if level >= h.threshold {
		h.log(ctx, nil, err)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.fallback.Write(fmt.Sprintf("logger failed (%v) while reporting", r), err)
		}
	}()
	h.logger.Log(ctx, level, "diagnostic", slog.String("error", err.Error()))
}

// HandleFatal reports an error that makes the process unable to continue,
// then exits nonzero. The fallback channel gets a copy in case the primary
// logger is the thing that is broken.
func (h *TerminalHandler) HandleFatal(err error) {
	if err != nil {
		h.log(context.Background(), nil, err)
		h.fallback.Write("fatal error, shutting down", err)
	}
	h.exit(1)
}

// log emits exactly one structured entry for the fault. If the logger
// itself panics, the entry degrades to the fallback channel; failures
// there are swallowed.
func (h *TerminalHandler) log(ctx context.Context, r *http.Request, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.fallback.Write(fmt.Sprintf("logger failed (%v) while reporting", rec), err)
		}
	}()

	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("type", fmt.Sprintf("%T", err)),
	}
	if r != nil {
		attrs = append(attrs,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("ip", ClientIP(r)),
		)
	}
	h.logger.ErrorContext(ctx, "unhandled exception", attrs...)
}

// render walks the tiers until one produces a complete response.
func (h *TerminalHandler) render(c Context, err error) {
	if c.Written() {
		return
	}

	if h.debug && h.renderer != nil && h.tryRendererTier(c, err) {
		return
	}
	if h.debug && h.tryDebugPageTier(c, err) {
		return
	}
	if h.tryProductionTier(c) {
		return
	}
	h.emergency.Render(c.Response(), c.Request(), err)
}

// tryRendererTier asks the injected renderer for a full diagnostic body.
func (h *TerminalHandler) tryRendererTier(c Context, err error) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	var body []byte
	var rerr error
	if c.WantsJSON() {
		body, rerr = h.renderer.RenderJSON(err, c.Request())
		if rerr != nil {
			return false
		}
		return c.JSON(http.StatusInternalServerError, rawJSON(body)) == nil
	}
	body, rerr = h.renderer.RenderHTML(err, c.Request())
	if rerr != nil {
		return false
	}
	return c.HTML(http.StatusInternalServerError, string(body)) == nil
}

// tryDebugPageTier writes an inline diagnostic page: error type, message,
// origin, and a bounded trace.
func (h *TerminalHandler) tryDebugPageTier(c Context, err error) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	trace := errTrace(err)
	origin := ""
	if len(trace) > 0 {
		origin = trace[0]
	}

	if c.WantsJSON() {
		payload := map[string]any{
			"message":   err.Error(),
			"exception": fmt.Sprintf("%T", err),
			"origin":    origin,
			"trace":     trace,
		}
		return c.JSON(http.StatusInternalServerError, payload) == nil
	}

	body := "<!DOCTYPE html><html><head><title>" + htmlEscape(err.Error()) + "</title></head><body>" +
		"<h1>" + htmlEscape(fmt.Sprintf("%T", err)) + "</h1>" +
		"<p>" + htmlEscape(err.Error()) + "</p>" +
		"<p><code>" + htmlEscape(origin) + "</code></p><pre>"
	for _, frame := range trace {
		body += htmlEscape(frame) + "\n"
	}
	body += "</pre></body></html>"
	return c.HTML(http.StatusInternalServerError, body) == nil
}

// tryProductionTier writes the bare page that reveals nothing.
func (h *TerminalHandler) tryProductionTier(c Context) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if c.WantsJSON() {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server Error"}) == nil
	}
	const page = "<!DOCTYPE html><html><head><title>Server Error</title></head>" +
		"<body><h1>Server Error</h1></body></html>"
	return c.HTML(http.StatusInternalServerError, page) == nil
}

// errTrace returns the error's captured stack split into lines if it carries
// one, otherwise the current call stack. Bounded either way.
func errTrace(err error) []string {
	if st, ok := err.(stackTracer); ok {
		if stack := st.StackTrace(); len(stack) > 0 {
			return splitLines(string(stack), emergencyTraceLimit)
		}
	}
	return captureFrames(4, emergencyTraceLimit)
}

func splitLines(s string, limit int) []string {
	var out []string
	start := 0
	for i := 0; i < len(s) && len(out) < limit; i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) && len(out) < limit {
		out = append(out, s[start:])
	}
	return out
}

// rawJSON passes pre-encoded renderer output through the JSON writer intact.
type rawJSON []byte

func (j rawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}
