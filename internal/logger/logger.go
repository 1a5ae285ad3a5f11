// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	once sync.Once
	Log  zerolog.Logger
)

func configure(out io.Writer) {
	zerolog.TimeFieldFormat = timeFormat
	Log = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
	}).With().Timestamp().Logger()
}

// GetLoggerConfigured returns the shared logger, setting the global level
// on first use. Whichever of GetLogger and GetLoggerConfigured runs first
// fixes the level for the process; a GetLogger call made earlier (for
// example by algo.NewSelector) leaves the level at zerolog's default, and
// later calls cannot change it. Binaries call GetLoggerConfigured before
// building anything that logs.
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configure(os.Stderr)
		zerolog.SetGlobalLevel(level)
	})
	return &Log
}

// GetLogger returns the shared logger, configuring it at the default level
// if nothing has yet.
func GetLogger() *zerolog.Logger {
	once.Do(func() {
		configure(os.Stderr)
	})
	return &Log
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
