// Package log provides the logging infrastructure for adjutant.
//
// Loggers are injected via constructors, never pulled from globals.
// Components add their own context with logger.With("component", ...).
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type alias for *slog.Logger.
// Using the standard library type directly keeps full compatibility with
// the slog ecosystem and avoids a custom interface.
type Logger = *slog.Logger

// Config defines logger configuration options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo
	Level slog.Level

	// JSON enables JSON format output. Default: false (text format)
	JSON bool

	// AddSource adds source file information to log entries. Default: false
	AddSource bool
}

// New creates a new logger with the given configuration.
// Output is written to os.Stderr so it never interleaves with chat output.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a new logger that writes to the specified writer.
// Useful for testing or custom output destinations.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewNop creates a logger that discards all output.
// Test-only: production code should always use New or NewWithWriter.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a configuration string to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
