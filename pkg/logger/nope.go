package logger

import "log/slog"

// NewNope returns a logger that drops everything. It is the default wherever
// a logger is optional, so call sites never need a nil check.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
