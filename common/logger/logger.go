// Package logger provides the unified logging interface for the assistant.
// The package-level functions wrap a shared zerolog logger so call sites stay
// terse; tests can swap the writer or raise the level.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger()

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// SetLevel sets the minimum log level for the shared logger.
func SetLevel(level zerolog.Level) {
	log = log.Level(level)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log = log.Output(w)
}
