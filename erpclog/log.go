// Package erpclog provides the small, swappable logger the server package
// uses for its "log and continue" policy on per-request handler failures.
// It is deliberately thin: the eRPC core is a library, not an application,
// so it never decides log format or destination on its own behalf — it
// just needs somewhere to put a diagnostic line when it chooses to keep
// running past an error instead of propagating it.
package erpclog

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// SetLogger replaces the package-level logger. An embedding application
// calls this once during setup to route eRPC's diagnostic output into its
// own logging pipeline; passing nil restores the default stderr logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		return
	}
	logger.Store(l)
}

// Logger returns the current package-level logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// Warn logs msg at warning level with attrs, using the current logger.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Logger().LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Debug logs msg at debug level with attrs, using the current logger.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Logger().LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
