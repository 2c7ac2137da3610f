package logwrap

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives fully rendered log records. LogWrap and LogOnAccess assemble
// whole multi-line messages, so the sink contract is a single leveled write.
type Sink interface {
	Log(level zerolog.Level, msg string)
}

// ZerologSink adapts a zerolog.Logger to the Sink interface.
type ZerologSink struct {
	Logger *zerolog.Logger
}

// Log writes msg at the requested level.
func (s ZerologSink) Log(level zerolog.Level, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithLevel(level).Msg(msg)
}

var (
	defaultSinkMu sync.RWMutex
	defaultSink   Sink = newConsoleSink()
)

func newConsoleSink() Sink {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return ZerologSink{Logger: &logger}
}

// DefaultSink returns the process-wide fallback sink used when no sink was
// configured and discovery finds nothing.
func DefaultSink() Sink {
	defaultSinkMu.RLock()
	defer defaultSinkMu.RUnlock()
	return defaultSink
}

// SetDefaultSink replaces the process-wide fallback sink. A nil sink
// restores the stderr console sink.
func SetDefaultSink(s Sink) {
	defaultSinkMu.Lock()
	defer defaultSinkMu.Unlock()
	if s == nil {
		s = newConsoleSink()
	}
	defaultSink = s
}
