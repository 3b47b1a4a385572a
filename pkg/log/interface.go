// Package log provides a structured logging interface for sciforest.
//
// The Logger interface is slog-compatible so the backend can be swapped;
// the default backend is zerolog (see zerolog.go). Ensemble learners take a
// Logger through options and fall back to GetLoggerWithName.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("ensemble").With(
//	    log.ModelNameKey, "ExtraTrees",
//	)
//	logger.Info("Learn started",
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 4,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. An error value is rendered with its
// message; errors implementing zerolog.LogObjectMarshaler are rendered as objects
// by the zerolog backend.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	//   logger.Error("tree build failed",
	//       "error", err,
	//       log.WorkerIDKey, 3,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
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

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
