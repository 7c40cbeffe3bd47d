package logger

import "time"

// Noop is a Logger that discards everything. Intended for tests and for
// callers that have not configured logging yet.
type Noop struct{}

var _ Logger = Noop{}

func (Noop) Debug() LogEvent { return noopEvent{} }
func (Noop) Info() LogEvent  { return noopEvent{} }
func (Noop) Warn() LogEvent  { return noopEvent{} }
func (Noop) Error() LogEvent { return noopEvent{} }
func (Noop) Fatal() LogEvent { return noopEvent{} }

func (Noop) WithFields(map[string]any) Logger { return Noop{} }

type noopEvent struct{}

func (noopEvent) Msg(string)                         {}
func (noopEvent) Msgf(string, ...any)                {}
func (noopEvent) Err(error) LogEvent                 { return noopEvent{} }
func (noopEvent) Str(string, string) LogEvent        { return noopEvent{} }
func (noopEvent) Int(string, int) LogEvent           { return noopEvent{} }
func (noopEvent) Int64(string, int64) LogEvent       { return noopEvent{} }
func (noopEvent) Dur(string, time.Duration) LogEvent { return noopEvent{} }
func (noopEvent) Interface(string, any) LogEvent     { return noopEvent{} }
