package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// eventAdapter adapts a zerolog event to the LogEvent interface.
type eventAdapter struct {
	event *zerolog.Event
}

func (a *eventAdapter) Msg(msg string) { a.event.Msg(msg) }

func (a *eventAdapter) Msgf(format string, args ...any) { a.event.Msgf(format, args...) }

func (a *eventAdapter) Err(err error) LogEvent {
	return &eventAdapter{event: a.event.Err(err)}
}

func (a *eventAdapter) Str(key, value string) LogEvent {
	return &eventAdapter{event: a.event.Str(key, value)}
}

func (a *eventAdapter) Int(key string, value int) LogEvent {
	return &eventAdapter{event: a.event.Int(key, value)}
}

func (a *eventAdapter) Int64(key string, value int64) LogEvent {
	return &eventAdapter{event: a.event.Int64(key, value)}
}

func (a *eventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &eventAdapter{event: a.event.Dur(key, d)}
}

func (a *eventAdapter) Interface(key string, i any) LogEvent {
	return &eventAdapter{event: a.event.Interface(key, i)}
}
