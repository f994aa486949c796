package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	out        io.Writer
	level      slog.Level
	extractors []ContextExtractor
}

// Option configures the logger factory.
type Option func(*options)

// WithLevel sets the minimum level emitted. Defaults to Info.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput redirects log output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithExtractors registers context extractors applied on every log call.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// New creates a JSON-formatted logger.
func New(opts ...Option) *slog.Logger {
	o := &options{out: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(o)
	}

	h := slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level})
	return slog.New(NewLogHandlerDecorator(h, o.extractors...))
}
