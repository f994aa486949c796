// Package logger provides structured logging on top of log/slog with
// context-based attribute injection, optional Sentry error reporting, and a
// dependency-free fallback channel for the fault pipeline.
//
// # Basic Usage
//
//	requestID := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value("request_id").(string); ok && id != "" {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.WithExtractors(requestID))
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, requestID)
//
// If the DSN is empty or initialization fails, the logger degrades to
// stdout-only output so development and production share one code path.
//
// # Fallback Channel
//
// Fallback writes bare timestamped lines to stderr. The terminal exception
// handler uses it when the primary logger itself throws, which keeps fault
// reports flowing even with a broken logging pipeline.
package logger
