// Package logging owns process-wide leveled logging on top of zerolog,
// with runtime and test profiles and environment overrides.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// Logger exposes the configured logger for callers that want structured
// fields rather than the printf helpers.
func Logger() zerolog.Logger {
	return logger
}

func Tracef(format string, args ...any) {
	logger.Trace().Msgf(format, args...)
}

func Debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}
