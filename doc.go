// Package logwrap logs function calls, return values and failures in a
// human-readable, recursively indented form, built on rs/zerolog sinks.
//
// Key features
//   - PrettyRepr / PrettyStr: deterministic multi-line rendering of arbitrary
//     values (nested containers, structs, callables) with a configurable
//     indentation budget
//   - Custom rendering escape hatch: values implementing ReprRenderer or
//     StrRenderer fully own their representation
//   - LogWrap: wraps any function, logging "Calling"/"Awaiting", "Done" and
//     "Failed" records with bound arguments; the wrapped call always runs
//     and failures propagate unchanged
//   - LogOnAccess: property-style accessor wrapper logging get/set/delete
//     with elapsed time
//   - Blacklists for parameter names and error values, per-policy log levels,
//     rolling-file sink construction via lumberjack
//
// Typical usage
//
//	lw := logwrap.MustNew(logwrap.WithLog(sink))
//	fetch := logwrap.Wrap(lw, fetchUser)
//	user, err := fetch(id) // emits "Calling:" and "Done:"/"Failed:" records
package logwrap
