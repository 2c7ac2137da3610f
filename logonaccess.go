package logwrap

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// LogOnAccess is the property-style counterpart of LogWrap: it wraps
// attribute-like get/set/delete accessors on an owner value and logs each
// access with elapsed wall-clock time. Accessors report failure through
// their error result; failures propagate unchanged after logging.
//
// The zero value is unusable; construct with NewLogOnAccess and assign the
// accessor funcs afterwards.
type LogOnAccess[T any, V any] struct {
	// Getter, Setter and Deleter are the underlying accessors. A missing
	// accessor makes the corresponding operation fail with ErrNoAccessor
	// before any record is emitted.
	Getter  func(owner T) (V, error)
	Setter  func(owner T, value V) error
	Deleter func(owner T) error

	// Logger is the explicit sink override. When nil, resolution walks the
	// owner's exported fields under conventional names (LOG, LOGGER, Log,
	// Logger) accepting a Sink or zerolog logger, then falls back to
	// DefaultSink.
	Logger Sink
	// LogObjectRepr renders the owner in full when set; otherwise a
	// placeholder with type name and address is used.
	LogObjectRepr bool
	// OverrideName replaces the attribute name in records when non-empty.
	OverrideName string

	LogLevel     zerolog.Level
	ExcLevel     zerolog.Level
	LogBefore    bool
	LogSuccess   bool
	LogFailure   bool
	LogTraceback bool
	MaxIndent    int

	name string
}

// NewLogOnAccess returns an accessor wrapper for the named attribute with
// full logging enabled at debug level.
func NewLogOnAccess[T any, V any](name string) *LogOnAccess[T, V] {
	return &LogOnAccess[T, V]{
		LogObjectRepr: true,
		LogLevel:      zerolog.DebugLevel,
		ExcLevel:      zerolog.DebugLevel,
		LogBefore:     true,
		LogSuccess:    true,
		LogFailure:    true,
		LogTraceback:  true,
		MaxIndent:     DefaultMaxIndent,
		name:          name,
	}
}

// Name is the attribute name used in records.
func (p *LogOnAccess[T, V]) Name() string {
	if p.OverrideName != emptyString {
		return p.OverrideName
	}
	return p.name
}

// Get runs the getter, logging the request, the rendered result on success
// and the failure otherwise.
func (p *LogOnAccess[T, V]) Get(owner T) (V, error) {
	var zero V
	if p.Getter == nil {
		return zero, fmt.Errorf("%w: no getter for %q", ErrNoAccessor, p.Name())
	}

	source := p.objSource(owner)
	logger := p.loggerFor(owner)
	started := time.Now()

	if p.LogBefore {
		logger.Log(p.LogLevel, fmt.Sprintf("Request: %s.%s", source, p.Name()))
	}
	result, err := p.Getter(owner)
	if err != nil {
		if p.LogFailure {
			logger.Log(p.ExcLevel, fmt.Sprintf("Failed after %.03fs: %s.%s%s",
				p.elapsed(started), source, p.Name(), p.traceback(err)))
		}
		return zero, err
	}
	if p.LogSuccess {
		logger.Log(p.LogLevel, fmt.Sprintf("Done at %.03fs: %s.%s -> %s",
			p.elapsed(started), source, p.Name(), p.render(result)))
	}
	return result, nil
}

// Set runs the setter, logging the value being assigned.
func (p *LogOnAccess[T, V]) Set(owner T, value V) error {
	if p.Setter == nil {
		return fmt.Errorf("%w: no setter for %q", ErrNoAccessor, p.Name())
	}

	source := p.objSource(owner)
	logger := p.loggerFor(owner)
	started := time.Now()

	if p.LogBefore {
		logger.Log(p.LogLevel, fmt.Sprintf("Request: %s.%s = %s", source, p.Name(), p.render(value)))
	}
	if err := p.Setter(owner, value); err != nil {
		if p.LogFailure {
			logger.Log(p.ExcLevel, fmt.Sprintf("Failed after %.03fs: %s.%s = %s%s",
				p.elapsed(started), source, p.Name(), p.render(value), p.traceback(err)))
		}
		return err
	}
	if p.LogSuccess {
		logger.Log(p.LogLevel, fmt.Sprintf("Done at %.03fs: %s.%s = %s",
			p.elapsed(started), source, p.Name(), p.render(value)))
	}
	return nil
}

// Delete runs the deleter.
func (p *LogOnAccess[T, V]) Delete(owner T) error {
	if p.Deleter == nil {
		return fmt.Errorf("%w: no deleter for %q", ErrNoAccessor, p.Name())
	}

	source := p.objSource(owner)
	logger := p.loggerFor(owner)
	started := time.Now()

	if p.LogBefore {
		logger.Log(p.LogLevel, fmt.Sprintf("Request: del %s.%s", source, p.Name()))
	}
	if err := p.Deleter(owner); err != nil {
		if p.LogFailure {
			logger.Log(p.ExcLevel, fmt.Sprintf("Failed after %.03fs: del %s.%s%s",
				p.elapsed(started), source, p.Name(), p.traceback(err)))
		}
		return err
	}
	if p.LogSuccess {
		logger.Log(p.LogLevel, fmt.Sprintf("Done at %.03fs: del %s.%s", p.elapsed(started), source, p.Name()))
	}
	return nil
}

func (p *LogOnAccess[T, V]) elapsed(started time.Time) float64 {
	return time.Since(started).Seconds()
}

func (p *LogOnAccess[T, V]) render(value any) string {
	pf := NewPrettyRepr()
	pf.MaxIndent = p.MaxIndent
	return pf.Process(value, 0, false)
}

func (p *LogOnAccess[T, V]) traceback(err error) string {
	if !p.LogTraceback {
		return emptyString
	}
	return "\n" + formatTraceback(err)
}

// objSource names the owner in records: its full rendering, or a compact
// placeholder when LogObjectRepr is disabled.
func (p *LogOnAccess[T, V]) objSource(owner T) string {
	if p.LogObjectRepr {
		return p.render(owner)
	}
	v := reflect.ValueOf(owner)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		return fmt.Sprintf("<%s() at %#x>", v.Elem().Type().Name(), v.Pointer())
	}
	return fmt.Sprintf("<%s()>", reflect.Indirect(v).Type().Name())
}

// loggerFor resolves the sink: explicit override, then conventional owner
// fields, then the package default.
func (p *LogOnAccess[T, V]) loggerFor(owner T) Sink {
	if p.Logger != nil {
		return p.Logger
	}

	v := unwrapValue(reflect.ValueOf(owner))
	if v.IsValid() && v.Kind() == reflect.Struct {
		for _, name := range loggerFieldNames {
			field := v.FieldByName(name)
			if !field.IsValid() || !field.CanInterface() {
				continue
			}
			switch candidate := field.Interface().(type) {
			case Sink:
				if candidate != nil {
					return candidate
				}
			case *zerolog.Logger:
				if candidate != nil {
					return ZerologSink{Logger: candidate}
				}
			case zerolog.Logger:
				return ZerologSink{Logger: &candidate}
			}
		}
	}
	return DefaultSink()
}
