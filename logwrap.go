package logwrap

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// LogWrap is the call-logging policy attached to wrapped functions. One
// policy is shared by every invocation of the functions it wraps; flags and
// levels may be mutated afterwards through the accessor methods, tear-free
// but without cross-field consistency guarantees.
type LogWrap struct {
	logger Sink
	spec   *Signature

	logLevel  atomic.Int32
	excLevel  atomic.Int32
	maxIndent atomic.Int32
	maxIter   atomic.Int32

	logCallArgs      atomic.Bool
	logCallArgsOnExc atomic.Bool
	logTraceback     atomic.Bool
	logResultObj     atomic.Bool

	mu                sync.RWMutex
	blacklistedNames  []string
	blacklistedErrors []error
}

// Option configures a LogWrap policy at construction time.
type Option func(*LogWrap)

// WithLog sets the target sink. Default: DefaultSink().
func WithLog(sink Sink) Option {
	return func(lw *LogWrap) { lw.logger = sink }
}

// WithLogLevel sets the level for "Calling"/"Awaiting"/"Done" records.
func WithLogLevel(level zerolog.Level) Option {
	return func(lw *LogWrap) { lw.logLevel.Store(int32(level)) }
}

// WithExcLevel sets the level for "Failed" records.
func WithExcLevel(level zerolog.Level) Option {
	return func(lw *LogWrap) { lw.excLevel.Store(int32(level)) }
}

// WithMaxIndent sets the rendering indentation budget.
func WithMaxIndent(maxIndent int) Option {
	return func(lw *LogWrap) { lw.maxIndent.Store(int32(maxIndent)) }
}

// WithMaxIter caps rendered elements per container. Zero means unlimited.
func WithMaxIter(maxIter int) Option {
	return func(lw *LogWrap) { lw.maxIter.Store(int32(maxIter)) }
}

// WithSpec supplies an alternate signature descriptor used for binding and
// record naming when the real target's reflected signature is not
// representative.
func WithSpec(sig Signature) Option {
	return func(lw *LogWrap) { lw.spec = &sig }
}

// WithBlacklistedNames registers parameter names omitted from logs.
func WithBlacklistedNames(names ...string) Option {
	return func(lw *LogWrap) { lw.blacklistedNames = append(lw.blacklistedNames, names...) }
}

// WithBlacklistedErrors registers failures (matched with errors.Is) that are
// passed through without any log record.
func WithBlacklistedErrors(errs ...error) Option {
	return func(lw *LogWrap) { lw.blacklistedErrors = append(lw.blacklistedErrors, errs...) }
}

// WithLogCallArgs toggles argument logging on the pre-call record.
func WithLogCallArgs(enabled bool) Option {
	return func(lw *LogWrap) { lw.logCallArgs.Store(enabled) }
}

// WithLogCallArgsOnExc toggles argument logging on failure records.
func WithLogCallArgsOnExc(enabled bool) Option {
	return func(lw *LogWrap) { lw.logCallArgsOnExc.Store(enabled) }
}

// WithLogTraceback toggles traceback capture on failure records.
func WithLogTraceback(enabled bool) Option {
	return func(lw *LogWrap) { lw.logTraceback.Store(enabled) }
}

// WithLogResultObj toggles result rendering on "Done" records.
func WithLogResultObj(enabled bool) Option {
	return func(lw *LogWrap) { lw.logResultObj.Store(enabled) }
}

// policyLimits mirrors the numeric policy fields for validation.
type policyLimits struct {
	LogLevel  int32 `validate:"gte=-1,lte=7"`
	ExcLevel  int32 `validate:"gte=-1,lte=7"`
	MaxIndent int32 `validate:"gte=0"`
	MaxIter   int32 `validate:"gte=0"`
}

// New builds a LogWrap policy. Defaults: DefaultSink, DebugLevel for calls,
// ErrorLevel for failures, argument/result/traceback logging enabled.
func New(opts ...Option) (*LogWrap, error) {
	lw := &LogWrap{}
	lw.logLevel.Store(int32(zerolog.DebugLevel))
	lw.excLevel.Store(int32(zerolog.ErrorLevel))
	lw.maxIndent.Store(DefaultMaxIndent)
	lw.logCallArgs.Store(true)
	lw.logCallArgsOnExc.Store(true)
	lw.logTraceback.Store(true)
	lw.logResultObj.Store(true)

	for _, opt := range opts {
		opt(lw)
	}
	if lw.logger == nil {
		lw.logger = DefaultSink()
	}

	limits := policyLimits{
		LogLevel:  lw.logLevel.Load(),
		ExcLevel:  lw.excLevel.Load(),
		MaxIndent: lw.maxIndent.Load(),
		MaxIter:   lw.maxIter.Load(),
	}
	if err := validateStruct(&limits); err != nil {
		return nil, err
	}
	return lw, nil
}

// MustNew is New panicking on invalid options.
func MustNew(opts ...Option) *LogWrap {
	lw, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return lw
}

// LogLevel returns the level for successful-path records.
func (lw *LogWrap) LogLevel() zerolog.Level { return zerolog.Level(lw.logLevel.Load()) }

// SetLogLevel updates the successful-path level.
func (lw *LogWrap) SetLogLevel(level zerolog.Level) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	lw.logLevel.Store(int32(level))
	return nil
}

// ExcLevel returns the level for failure records.
func (lw *LogWrap) ExcLevel() zerolog.Level { return zerolog.Level(lw.excLevel.Load()) }

// SetExcLevel updates the failure level.
func (lw *LogWrap) SetExcLevel(level zerolog.Level) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	lw.excLevel.Store(int32(level))
	return nil
}

// MaxIndent returns the rendering indentation budget.
func (lw *LogWrap) MaxIndent() int { return int(lw.maxIndent.Load()) }

// SetMaxIndent updates the indentation budget.
func (lw *LogWrap) SetMaxIndent(maxIndent int) error {
	if maxIndent < 0 {
		return fmt.Errorf("%w: max indent must not be negative, got %d", ErrInvalidConfig, maxIndent)
	}
	lw.maxIndent.Store(int32(maxIndent))
	return nil
}

// MaxIter returns the per-container element cap (0 = unlimited).
func (lw *LogWrap) MaxIter() int { return int(lw.maxIter.Load()) }

// SetMaxIter updates the per-container element cap.
func (lw *LogWrap) SetMaxIter(maxIter int) error {
	if maxIter < 0 {
		return fmt.Errorf("%w: max iter must not be negative, got %d", ErrInvalidConfig, maxIter)
	}
	lw.maxIter.Store(int32(maxIter))
	return nil
}

// LogCallArgs reports whether arguments are logged on the pre-call record.
func (lw *LogWrap) LogCallArgs() bool { return lw.logCallArgs.Load() }

// SetLogCallArgs toggles argument logging on the pre-call record.
func (lw *LogWrap) SetLogCallArgs(enabled bool) { lw.logCallArgs.Store(enabled) }

// LogCallArgsOnExc reports whether arguments are logged on failures.
func (lw *LogWrap) LogCallArgsOnExc() bool { return lw.logCallArgsOnExc.Load() }

// SetLogCallArgsOnExc toggles argument logging on failures.
func (lw *LogWrap) SetLogCallArgsOnExc(enabled bool) { lw.logCallArgsOnExc.Store(enabled) }

// LogTraceback reports whether failure records carry a traceback.
func (lw *LogWrap) LogTraceback() bool { return lw.logTraceback.Load() }

// SetLogTraceback toggles traceback capture.
func (lw *LogWrap) SetLogTraceback(enabled bool) { lw.logTraceback.Store(enabled) }

// LogResultObj reports whether "Done" records carry the rendered result.
func (lw *LogWrap) LogResultObj() bool { return lw.logResultObj.Load() }

// SetLogResultObj toggles result rendering.
func (lw *LogWrap) SetLogResultObj(enabled bool) { lw.logResultObj.Store(enabled) }

// BlacklistedNames returns a copy of the omitted parameter names.
func (lw *LogWrap) BlacklistedNames() []string {
	lw.mu.RLock()
	defer lw.mu.RUnlock()
	return append([]string(nil), lw.blacklistedNames...)
}

// AddBlacklistedNames registers additional omitted parameter names.
func (lw *LogWrap) AddBlacklistedNames(names ...string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.blacklistedNames = append(lw.blacklistedNames, names...)
}

// BlacklistedErrors returns a copy of the silently re-raised failures.
func (lw *LogWrap) BlacklistedErrors() []error {
	lw.mu.RLock()
	defer lw.mu.RUnlock()
	return append([]error(nil), lw.blacklistedErrors...)
}

// AddBlacklistedErrors registers additional silently re-raised failures.
func (lw *LogWrap) AddBlacklistedErrors(errs ...error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.blacklistedErrors = append(lw.blacklistedErrors, errs...)
}

func checkLevel(level zerolog.Level) error {
	if level < zerolog.TraceLevel || level > zerolog.Disabled {
		return fmt.Errorf("%w: log level %d out of range", ErrInvalidConfig, level)
	}
	return nil
}

// Wrap returns a logged wrapper with the same dynamic type as fn. The
// wrapper shape is fixed here: targets taking a context.Context first emit
// "Awaiting" records before the call, plain targets emit "Calling" (staged
// until the outcome is known, so blacklisted failures leave no record).
func (lw *LogWrap) Wrap(fn any) (any, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T", ErrNotAFunction, fn)
	}
	t := v.Type()

	sig := signatureOfValue(v)
	if provider, ok := fn.(SignatureProvider); ok {
		sig = provider.Signature()
	}
	if lw.spec != nil {
		sig = *lw.spec
	}

	method := "Calling"
	eager := false
	if t.NumIn() > 0 && t.In(0) == ctxType {
		method = "Awaiting"
		eager = true
	}

	wrapped := reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		return lw.invoke(v, t, sig, method, eager, in)
	})
	return wrapped.Interface(), nil
}

// Wrap is the typed form of (*LogWrap).Wrap. It panics when fn is not a
// function, which is a decoration-time programming error.
func Wrap[F any](lw *LogWrap, fn F) F {
	wrapped, err := lw.Wrap(fn)
	if err != nil {
		panic(err)
	}
	return wrapped.(F)
}

type stagedRecord struct {
	level zerolog.Level
	msg   string
}

func (lw *LogWrap) invoke(v reflect.Value, t reflect.Type, sig Signature, method string, eager bool, in []reflect.Value) []reflect.Value {
	logger := lw.logger
	argsRepr := lw.funcArgsRepr(sig, flattenArgs(t, in))

	var staged []stagedRecord
	emit := func(level zerolog.Level, msg string) {
		if eager {
			logger.Log(level, msg)
			return
		}
		staged = append(staged, stagedRecord{level: level, msg: msg})
	}
	flush := func() {
		for _, rec := range staged {
			logger.Log(rec.level, rec.msg)
		}
		staged = nil
	}

	callArgs := emptyString
	if lw.LogCallArgs() {
		callArgs = argsRepr
	}
	emit(lw.LogLevel(), fmt.Sprintf("%s: \n'%s'(%s)", method, sig.Name, callArgs))

	out, panicVal, panicked := safeCall(v, t, in)
	if panicked {
		if !lw.failureBlacklisted(panicVal) {
			emit(lw.ExcLevel(), lw.failedMsg(sig.Name, argsRepr, panicVal))
			flush()
		}
		panic(panicVal)
	}

	if err := lastError(t, out); err != nil {
		if !lw.failureBlacklisted(err) {
			emit(lw.ExcLevel(), lw.failedMsg(sig.Name, argsRepr, err))
			flush()
		}
		return out
	}

	emit(lw.LogLevel(), lw.doneMsg(sig.Name, callResult(t, out)))
	flush()
	return out
}

func safeCall(v reflect.Value, t reflect.Type, in []reflect.Value) (out []reflect.Value, panicVal any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicVal, panicked = r, true
		}
	}()
	if t.IsVariadic() {
		return v.CallSlice(in), nil, false
	}
	return v.Call(in), nil, false
}

// flattenArgs converts reflected call inputs to plain values, expanding the
// collected variadic slice into individual positional arguments.
func flattenArgs(t reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, val := range in {
		if t.IsVariadic() && i == len(in)-1 {
			for j := 0; j < val.Len(); j++ {
				args = append(args, val.Index(j).Interface())
			}
			continue
		}
		args = append(args, val.Interface())
	}
	return args
}

// lastError extracts a non-nil error from the final result position.
func lastError(t reflect.Type, out []reflect.Value) error {
	if t.NumOut() == 0 {
		return nil
	}
	last := t.NumOut() - 1
	if !t.Out(last).Implements(errType) {
		return nil
	}
	err, _ := out[last].Interface().(error)
	return err
}

// callResult folds the non-error results into the value logged on "Done":
// nothing -> nil, one value -> itself, several -> a tuple-like slice.
func callResult(t reflect.Type, out []reflect.Value) any {
	values := make([]any, 0, len(out))
	for i, val := range out {
		if i == t.NumOut()-1 && t.Out(i).Implements(errType) {
			continue
		}
		values = append(values, val.Interface())
	}
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return values
	}
}

func (lw *LogWrap) failureBlacklisted(failure any) bool {
	err, ok := failure.(error)
	if !ok {
		return false
	}
	for _, blacklisted := range lw.BlacklistedErrors() {
		if errors.Is(err, blacklisted) {
			return true
		}
	}
	return false
}

// funcArgsRepr renders the bound call arguments, one per line, grouped by
// parameter kind. A binding failure degrades gracefully: argument logging
// is skipped, the call itself is never blocked.
func (lw *LogWrap) funcArgsRepr(sig Signature, args []any) string {
	if !lw.LogCallArgs() && !lw.LogCallArgsOnExc() {
		return emptyString
	}

	bound, err := BindArgs(sig, args, nil)
	if err != nil {
		return emptyString
	}

	blacklist := lw.BlacklistedNames()
	var sb strings.Builder
	lastKind := ParamKind(-1)
	for _, param := range bound {
		if nameBlacklisted(blacklist, param.Name) {
			continue
		}

		value := lw.safeValRepr(param.EffectiveValue())
		if param.Kind != lastKind {
			fmt.Fprintf(&sb, "\n%s# %s:", pad(argIndent, false), param.Kind)
			lastKind = param.Kind
		}

		annotation := emptyString
		if param.Annotation != emptyString {
			annotation = "  # type: " + param.Annotation
		}
		fmt.Fprintf(&sb, "\n%s%s=%s,%s", pad(argIndent, false), param.DisplayName(), value, annotation)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// safeValRepr renders one argument value, falling back to a placeholder if
// a custom renderer panics. Argument rendering must never block the
// "Calling" record or the call itself.
func (lw *LogWrap) safeValRepr(value any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<%T (repr failed with reason: %v)>", value, r)
		}
	}()
	return lw.formatter().Process(value, argIndent, true)
}

func (lw *LogWrap) formatter() *PrettyFormat {
	pf := NewPrettyRepr()
	pf.MaxIndent = lw.MaxIndent()
	pf.MaxIter = lw.MaxIter()
	return pf
}

func (lw *LogWrap) doneMsg(name string, result any) string {
	msg := fmt.Sprintf("Done: '%s'", name)
	if lw.LogResultObj() {
		msg += " with result:\n" + lw.formatter().Process(result, 0, false)
	}
	return msg
}

func (lw *LogWrap) failedMsg(name, argsRepr string, failure any) string {
	args := emptyString
	if lw.LogCallArgsOnExc() {
		args = argsRepr
	}
	tbText := failureTypeName(failure)
	if lw.LogTraceback() {
		tbText = formatTraceback(failure)
	}
	return fmt.Sprintf("Failed: \n'%s'(%s)\n%s", name, args, tbText)
}

func nameBlacklisted(blacklist []string, name string) bool {
	for _, blacklisted := range blacklist {
		if name == blacklisted {
			return true
		}
	}
	return false
}
