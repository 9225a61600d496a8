package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// LevelForVerbosity maps the repeatable -v flag count to a log level
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New builds a console logger writing to w.
// Callers are added from debug verbosity upwards.
func New(w io.Writer, verbosity int) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
	}

	level := LevelForVerbosity(verbosity)
	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// NewJSON builds a logger emitting one JSON object per line, for log shippers
func NewJSON(w io.Writer, verbosity int) zerolog.Logger {
	return zerolog.New(w).Level(LevelForVerbosity(verbosity)).With().Timestamp().Logger()
}
