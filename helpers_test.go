package logwrap

import (
	"sync"

	"github.com/rs/zerolog"
)

// memoryRecord is one captured (level, message) pair.
type memoryRecord struct {
	Level zerolog.Level
	Msg   string
}

// memorySink collects records in memory for assertions.
type memorySink struct {
	mu      sync.Mutex
	records []memoryRecord
}

func newMemorySink() *memorySink {
	return &memorySink{}
}

func (s *memorySink) Log(level zerolog.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, memoryRecord{Level: level, Msg: msg})
}

func (s *memorySink) Records() []memoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]memoryRecord(nil), s.records...)
}

// sampleCallable exists to give callable rendering a stable runtime name.
func sampleCallable(a int, rest ...string) error {
	_ = a
	_ = rest
	return nil
}

// sampleDivide exists to give wrapped-call records a stable runtime name.
func sampleDivide(a, b int) (int, error) {
	return a / b, nil
}
