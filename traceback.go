package logwrap

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// selfPkgPath identifies this package's frames so they can be excluded from
// captured tracebacks.
var selfPkgPath = reflect.TypeOf(LogWrap{}).PkgPath()

func ownFrame(function string) bool {
	if strings.HasPrefix(function, selfPkgPath+".") {
		// test functions live in the package too but belong to the caller
		return !strings.Contains(function, ".Test") && !strings.Contains(function, ".Benchmark")
	}
	return strings.HasPrefix(function, "reflect.") || strings.HasPrefix(function, "runtime.")
}

// formatTraceback renders the current call stack in a traceback block,
// excluding this package's own frames, terminated by the failure itself.
func formatTraceback(failure any) string {
	var sb strings.Builder
	sb.WriteString("Traceback (most recent call last):")

	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != emptyString && !ownFrame(frame.Function) {
			fmt.Fprintf(&sb, "\n  File %q, line %d, in %s", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}

	fmt.Fprintf(&sb, "\n%s: %v", failureTypeName(failure), failure)
	return sb.String()
}

func failureTypeName(failure any) string {
	if failure == nil {
		return nilText
	}
	return reflect.TypeOf(failure).String()
}
