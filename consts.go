package logwrap

import "errors"

const (
	// DefaultMaxIndent is the indentation budget before rendering falls
	// back to a single-line representation.
	DefaultMaxIndent = 20
	// DefaultIndentStep is the indentation increment per nesting level.
	DefaultIndentStep = 4

	// argIndent is the fixed indent used for rendered call arguments.
	argIndent = 4

	emptyString = ""
	nilText     = "nil"
)

// loggerFieldNames are the conventional owner field names inspected by
// LogOnAccess when no explicit sink is configured.
var loggerFieldNames = []string{"LOG", "LOGGER", "Log", "Logger"}

var (
	// ErrInvalidConfig reports a policy or sink option of the wrong kind
	// or out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNotAFunction reports a wrap target that is not a function.
	ErrNotAFunction = errors.New("target is not a function")
	// ErrNoAccessor reports a LogOnAccess operation with no registered
	// getter, setter or deleter.
	ErrNoAccessor = errors.New("accessor is not defined")
)

const (
	errMsgNoChannels = "no logging channels enabled"
)
