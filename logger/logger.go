package logger

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

// New creates a ZeroLogger with the given level ("debug", "info", ...).
// If pretty is true, output is console-formatted for local development.
func New(level string, pretty bool) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			return filepath.Base(file) + ":" + strconv.Itoa(line)
		}
	})

	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// Debug starts a debug-level event.
func (l *ZeroLogger) Debug() LogEvent { return &eventAdapter{event: l.zlog.Debug()} }

// Info starts an info-level event.
func (l *ZeroLogger) Info() LogEvent { return &eventAdapter{event: l.zlog.Info()} }

// Warn starts a warn-level event.
func (l *ZeroLogger) Warn() LogEvent { return &eventAdapter{event: l.zlog.Warn()} }

// Error starts an error-level event.
func (l *ZeroLogger) Error() LogEvent { return &eventAdapter{event: l.zlog.Error()} }

// Fatal starts a fatal-level event. The event terminates the process when sent.
func (l *ZeroLogger) Fatal() LogEvent { return &eventAdapter{event: l.zlog.Fatal()} }

// WithFields returns a logger with the fields attached to every event.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log}
}
