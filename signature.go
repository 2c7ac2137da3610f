package logwrap

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ParamKind is the binding class of a declared parameter.
type ParamKind int

const (
	// PositionalOnly parameters accept positional values only.
	PositionalOnly ParamKind = iota
	// PositionalOrKeyword parameters accept positional or named values.
	PositionalOrKeyword
	// VarPositional collects overflow positional values (*args).
	VarPositional
	// KeywordOnly parameters accept named values only.
	KeywordOnly
	// VarKeyword collects leftover named values (**kwargs).
	VarKeyword
)

func (k ParamKind) String() string {
	switch k {
	case PositionalOnly:
		return "POSITIONAL_ONLY"
	case PositionalOrKeyword:
		return "POSITIONAL_OR_KEYWORD"
	case VarPositional:
		return "VAR_POSITIONAL"
	case KeywordOnly:
		return "KEYWORD_ONLY"
	case VarKeyword:
		return "VAR_KEYWORD"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

type emptyType struct{}

func (emptyType) String() string { return "<empty>" }

func (emptyType) GoString() string { return "<empty>" }

// Empty is the sentinel for an absent default or value. It is distinct from
// nil, which is a legitimate value.
var Empty any = emptyType{}

// Parameter is one declared formal parameter of a Signature.
type Parameter struct {
	Name string
	Kind ParamKind
	// Default is the declared default value, or Empty.
	Default any
	// Annotation is the declared type annotation, or "".
	Annotation string
}

// NewParameter returns a parameter with no default and no annotation.
func NewParameter(name string, kind ParamKind) Parameter {
	return Parameter{Name: name, Kind: kind, Default: Empty}
}

// WithDefault returns a copy with the declared default set.
func (p Parameter) WithDefault(value any) Parameter {
	p.Default = value
	return p
}

// WithAnnotation returns a copy with the type annotation set.
func (p Parameter) WithAnnotation(annotation string) Parameter {
	p.Annotation = annotation
	return p
}

// DisplayName is the parameter name with the variadic kind marker attached.
func (p Parameter) DisplayName() string {
	switch p.Kind {
	case VarPositional:
		return "*" + p.Name
	case VarKeyword:
		return "**" + p.Name
	default:
		return p.Name
	}
}

// hasDefault treats both Empty and nil as "no declared default": nil is the
// zero value of the field in hand-written Parameter literals.
func (p Parameter) hasDefault() bool {
	return p.Default != nil && p.Default != Empty
}

// Signature is an ordered description of a callable: its name, declared
// parameters and return annotation. It is the only input the binder and the
// callable renderer operate on, decoupled from any concrete function value.
type Signature struct {
	Name   string
	Params []Parameter
	// Return is the return annotation, or "".
	Return string
}

// NewSignature builds a signature from explicit parameters, declaration
// order preserved.
func NewSignature(name string, params ...Parameter) Signature {
	return Signature{Name: name, Params: params}
}

// WithReturn returns a copy with the return annotation set.
func (s Signature) WithReturn(annotation string) Signature {
	s.Return = annotation
	return s
}

// SignatureProvider lets a callable value supply its own signature
// descriptor, e.g. a bound method pre-filling its receiver as a default.
type SignatureProvider interface {
	Signature() Signature
}

// SignatureOf derives a signature from a function value via reflection.
// Parameter names are not recoverable from the Go runtime, so positional
// names arg0..argN are synthesized; annotations carry the parameter type
// strings and a variadic final parameter becomes VarPositional.
func SignatureOf(fn any) (Signature, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: %T", ErrNotAFunction, fn)
	}
	return signatureOfValue(v), nil
}

func signatureOfValue(v reflect.Value) Signature {
	t := v.Type()
	sig := Signature{Name: funcName(v)}
	for i := 0; i < t.NumIn(); i++ {
		param := NewParameter(fmt.Sprintf("arg%d", i), PositionalOrKeyword)
		if t.IsVariadic() && i == t.NumIn()-1 {
			param.Kind = VarPositional
			param.Annotation = t.In(i).Elem().String()
		} else {
			param.Annotation = t.In(i).String()
		}
		sig.Params = append(sig.Params, param)
	}

	switch t.NumOut() {
	case 0:
	case 1:
		sig.Return = t.Out(0).String()
	default:
		outs := make([]string, t.NumOut())
		for i := range outs {
			outs[i] = t.Out(i).String()
		}
		sig.Return = "(" + strings.Join(outs, ", ") + ")"
	}
	return sig
}

// funcName resolves a function value's runtime name, trimmed of its module
// path prefix.
func funcName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		name := fn.Name()
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}
		return name
	}
	return v.Type().String()
}
