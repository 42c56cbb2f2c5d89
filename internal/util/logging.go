// Package util provides common utilities including logging helpers,
// file system paths, and small conversions.
package util

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds a JSON logger writing to w at the given level name.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewConsoleLogger logs human-readable lines to stderr.
func NewConsoleLogger(level string) zerolog.Logger {
	return NewLogger(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// OpenLogFile opens (appending) the log file at path and returns a logger on
// it. The returned closer must be called on shutdown.
func OpenLogFile(path, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return NewLogger(f, level), f, nil
}

// LogError logs an error with context if it is non-nil.
func LogError(log zerolog.Logger, context string, err error) {
	if err != nil {
		log.Error().Err(err).Msg(context)
	}
}
