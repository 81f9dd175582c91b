package penpad

import (
	"log/slog"

	"github.com/gogpu/gg"

	"github.com/gogpu/penpad/internal/logging"
)

// SetLogger configures the logger for penpad and all its sub-packages.
// By default, penpad produces no log output. Call SetLogger to enable logging.
//
// The logger is also handed to gg so that drawing diagnostics end up in
// the same place.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by penpad:
//   - [slog.LevelDebug]: property changes, lifecycle transitions, stroke input
//   - [slog.LevelInfo]: surface shutdowns, restored state
//   - [slog.LevelWarn]: non-fatal drawing and watcher errors
//
// Example:
//
//	penpad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
	gg.SetLogger(l)
}

// Logger returns the current logger used by penpad.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
