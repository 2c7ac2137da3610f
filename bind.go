package logwrap

import (
	"fmt"
	"sort"
)

// BindingError reports call-time arguments that cannot be matched to a
// declared signature.
type BindingError struct {
	// Param is the offending parameter or argument name, when known.
	Param string
	// Reason describes the mismatch.
	Reason string
}

func (e *BindingError) Error() string {
	if e.Param == emptyString {
		return "cannot bind arguments: " + e.Reason
	}
	return fmt.Sprintf("cannot bind arguments: %s (parameter %q)", e.Reason, e.Param)
}

// BoundParameter pairs a declared parameter with its resolved call-time (or
// default) value. Constructed fresh per logged call, immutable afterwards.
type BoundParameter struct {
	Parameter
	// Value is the call-time value, or Empty when the default applies
	// and none was declared for a variadic kind.
	Value any
}

// NewBoundParameter binds value to param. A missing value with no declared
// default is a construction error unless the parameter is variadic.
func NewBoundParameter(param Parameter, value any) (BoundParameter, error) {
	if value == Empty && !param.hasDefault() {
		if param.Kind != VarPositional && param.Kind != VarKeyword {
			return BoundParameter{}, &BindingError{Param: param.Name, Reason: "value is not set and no default value"}
		}
	}
	if value == Empty && param.hasDefault() {
		value = param.Default
	}
	return BoundParameter{Parameter: param, Value: value}, nil
}

// EffectiveValue is the value to render: absent variadics collapse to an
// empty sequence or mapping.
func (bp BoundParameter) EffectiveValue() any {
	if bp.Value != Empty {
		return bp.Value
	}
	switch bp.Kind {
	case VarPositional:
		return []any{}
	case VarKeyword:
		return map[string]any{}
	default:
		return bp.Value
	}
}

// String renders the bound parameter for debug purposes:
// name, annotation, value and declared default, with variadic markers.
func (bp BoundParameter) String() string {
	out := bp.Name
	if bp.Annotation != emptyString {
		out += ": " + bp.Annotation
	}
	out += fmt.Sprintf("=%#v", bp.EffectiveValue())
	if bp.hasDefault() {
		out += fmt.Sprintf("  # %#v", bp.Default)
	}
	switch bp.Kind {
	case VarPositional:
		out = "*" + out
	case VarKeyword:
		out = "**" + out
	}
	return out
}

// BindArgs matches positional and keyword arguments to sig, producing one
// BoundParameter per declared parameter in declaration order. It is a pure
// function of its inputs: overflow positional values collect into a
// VarPositional parameter, leftover keyword values into a VarKeyword one,
// and any mismatch yields a BindingError.
func BindArgs(sig Signature, args []any, kwargs map[string]any) ([]BoundParameter, error) {
	remaining := make(map[string]any, len(kwargs))
	for name, value := range kwargs {
		remaining[name] = value
	}

	bound := make([]BoundParameter, 0, len(sig.Params))
	pos := 0
	for _, param := range sig.Params {
		value := Empty

		switch param.Kind {
		case PositionalOnly, PositionalOrKeyword:
			if pos < len(args) {
				value = args[pos]
				pos++
				if _, dup := remaining[param.Name]; dup && param.Kind == PositionalOrKeyword {
					return nil, &BindingError{Param: param.Name, Reason: "multiple values supplied"}
				}
			} else if kw, ok := remaining[param.Name]; ok && param.Kind == PositionalOrKeyword {
				value = kw
				delete(remaining, param.Name)
			}
		case KeywordOnly:
			if kw, ok := remaining[param.Name]; ok {
				value = kw
				delete(remaining, param.Name)
			}
		case VarPositional:
			if pos < len(args) {
				value = append([]any{}, args[pos:]...)
				pos = len(args)
			}
		case VarKeyword:
			if len(remaining) > 0 {
				collected := make(map[string]any, len(remaining))
				for name, kw := range remaining {
					collected[name] = kw
				}
				remaining = map[string]any{}
				value = collected
			}
		}

		bp, err := NewBoundParameter(param, value)
		if err != nil {
			return nil, err
		}
		bound = append(bound, bp)
	}

	if pos < len(args) {
		return nil, &BindingError{Reason: fmt.Sprintf("too many positional arguments: %d declared, %d supplied", pos, len(args))}
	}
	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, &BindingError{Param: names[0], Reason: "unexpected keyword argument"}
	}
	return bound, nil
}
