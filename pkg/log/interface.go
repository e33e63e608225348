// Package log provides a structured logging interface for training and
// evaluating the single-layer classifiers.
//
// The Logger interface is slog-compatible so that the backend can be swapped
// without touching call sites. The default backend is zerolog (see zerolog.go);
// SetupLogger configures log/slog for the demo entry points, and TestLogger
// captures JSON lines for assertions in tests.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "LogisticRegression",
//	)
//	logger.Info("Training started",
//	    log.SamplesKey, 1200,
//	    log.FeaturesKey, 2,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. The With method returns a
// child logger that carries the given fields on every record.
type Logger interface {
	// Debug logs a debug-level message. Per-epoch training details go here.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached under ErrAttrKey together with its stack trace.
	//
	//	logger.Error("Training failed", err, log.EpochKey, 12)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip computing expensive fields such as per-epoch loss.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
