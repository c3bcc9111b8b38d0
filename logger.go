package camfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while a Runner is ticking.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for camfx and its sub-packages.
// By default camfx produces no log output. Pass nil to restore silence.
//
// Log levels used by camfx:
//   - [slog.LevelDebug]: per-tick diagnostics (over-budget ticks, skipped ticks)
//   - [slog.LevelInfo]: lifecycle events (runner start and stop, source opened)
//   - [slog.LevelWarn]: recoverable issues (dimension resets, source and sink errors)
//
// Example:
//
//	camfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by camfx.
// Capture sources and display sinks call this to share the same
// configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
