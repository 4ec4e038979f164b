// Package logger is the structured logging facade for the service. It wraps
// zerolog so call sites pass a message plus an optional field map instead of
// driving zerolog's builder API directly.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger emits structured records through an underlying zerolog.Logger.
type Logger struct {
	zlog zerolog.Logger
}

// New builds a Logger for the given environment. "development" gets a
// colorized console writer at debug level; every other environment writes
// JSON at info level, which is what log shippers expect.
func New(env string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var zlog zerolog.Logger
	if env == "development" {
		console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		zlog = zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zlog = zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}

	return &Logger{zlog: zlog}
}

// emit attaches the field map to the event and writes it. A nil map is fine.
func emit(ev *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	emit(l.zlog.Debug(), msg, fields)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	emit(l.zlog.Info(), msg, fields)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	emit(l.zlog.Warn(), msg, fields)
}

// Error logs at error level with the causing error attached.
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	emit(l.zlog.Error().Err(err), msg, fields)
}

// Fatal logs at fatal level and terminates the process.
func (l *Logger) Fatal(msg string, err error, fields map[string]interface{}) {
	emit(l.zlog.Fatal().Err(err), msg, fields)
}

// WithRequestID derives a child logger that stamps every record with the
// request ID, so one request's log lines can be pulled together.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("request_id", requestID).Logger()}
}
