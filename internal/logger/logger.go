// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Init builds the process logger. Output goes to stderr so command
// output on stdout stays clean. verbose forces debug level; otherwise
// the LOG_LEVEL environment variable picks the level (trace, debug,
// info, warn, error), defaulting to warn.
func Init(verbose bool) zerolog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning", "":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
