package logwrap

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ReprRenderer lets a value fully own its debug-style representation.
// The method receives the active formatter, the current indent and the
// suppress-leading-indent flag, and its result is returned verbatim.
type ReprRenderer interface {
	PrettyRepr(pf *PrettyFormat, indent int, noIndentStart bool) string
}

// StrRenderer is the display-style counterpart of ReprRenderer.
type StrRenderer interface {
	PrettyStr(pf *PrettyFormat, indent int, noIndentStart bool) string
}

type variant int

const (
	reprVariant variant = iota
	strVariant
)

// PrettyFormat renders arbitrary values into indented multi-line text.
// Designed as a String()/GoString() replacement on complex objects.
//
// The zero value is not usable; construct with NewPrettyRepr or NewPrettyStr.
type PrettyFormat struct {
	variant variant

	// MaxIndent is the indent level at which rendering falls back to the
	// single-line form regardless of nesting.
	MaxIndent int
	// IndentStep is the indent increment per nesting level.
	IndentStep int
	// MaxIter caps rendered elements per container; excess elements
	// collapse into an ellipsis line. Zero means unlimited.
	MaxIter int
}

// NewPrettyRepr returns a formatter producing debug-style output: container
// frames carry the runtime type name and text values are wrapped in
// u'''...''' / b'''...''' markers.
func NewPrettyRepr() *PrettyFormat {
	return &PrettyFormat{variant: reprVariant, MaxIndent: DefaultMaxIndent, IndentStep: DefaultIndentStep}
}

// NewPrettyStr returns a formatter producing display-style output: no type
// name prefixes and text values pass through as-is.
func NewPrettyStr() *PrettyFormat {
	return &PrettyFormat{variant: strVariant, MaxIndent: DefaultMaxIndent, IndentStep: DefaultIndentStep}
}

// PrettyRepr renders src in debug style with default settings.
func PrettyRepr(src any) string {
	return NewPrettyRepr().Process(src, 0, false)
}

// PrettyStr renders src in display style with default settings.
func PrettyStr(src any) string {
	return NewPrettyStr().Process(src, 0, false)
}

// NextIndent returns the indent for the next nesting level. Mapping values
// descend with multiplier 2: the key column reserves one extra level.
func (pf *PrettyFormat) NextIndent(indent int, multiplier int) int {
	return indent + multiplier*pf.IndentStep
}

// Process renders src starting at indent. noIndentStart suppresses the
// leading padding so the first line can be inlined after other text.
//
// Rendering is a pure transformation: deterministic for a given value graph
// and configuration, with no side effects. Cycles are not detected; deeply
// nested or self-referential graphs terminate at MaxIndent.
func (pf *PrettyFormat) Process(src any, indent int, noIndentStart bool) string {
	if out, ok := pf.customRender(src, indent, noIndentStart); ok {
		return out
	}

	v := unwrapValue(reflect.ValueOf(src))
	if !v.IsValid() {
		return pad(indent, noIndentStart) + nilText
	}

	if v.Kind() == reflect.Func {
		return pf.processCallable(src, v, indent)
	}

	if isSimpleValue(v) || indent >= pf.MaxIndent || containerLen(v) == 0 {
		return pf.processSimple(v, indent, noIndentStart)
	}

	switch v.Kind() {
	case reflect.Map:
		return pf.processMap(v, indent)
	case reflect.Struct:
		return pf.processStruct(v, indent)
	default:
		return pf.processSequence(v, indent)
	}
}

func (pf *PrettyFormat) customRender(src any, indent int, noIndentStart bool) (string, bool) {
	switch pf.variant {
	case reprVariant:
		if r, ok := src.(ReprRenderer); ok {
			return r.PrettyRepr(pf, indent, noIndentStart), true
		}
	default:
		if r, ok := src.(StrRenderer); ok {
			return r.PrettyStr(pf, indent, noIndentStart), true
		}
	}
	return emptyString, false
}

// unwrapValue dereferences pointers and interfaces down to a concrete value.
// Nil anywhere along the chain yields an invalid value.
func unwrapValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// isSimpleValue reports whether v renders on a single line without
// recursion. Classification follows runtime capabilities only: byte slices
// are textual, zero-field-struct-valued maps are set-like, every non
// container kind is opaque.
func isSimpleValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice:
		return v.Type().Elem().Kind() == reflect.Uint8
	case reflect.Array, reflect.Struct:
		return false
	case reflect.Map:
		return isSetLike(v.Type())
	default:
		return true
	}
}

func isSetLike(t reflect.Type) bool {
	elem := t.Elem()
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

func isByteSlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8
}

func containerLen(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len()
	case reflect.Struct:
		n := 0
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).CanInterface() {
				n++
			}
		}
		return n
	default:
		return 1
	}
}

// processSimple renders a value without recursion.
func (pf *PrettyFormat) processSimple(v reflect.Value, indent int, noIndentStart bool) string {
	ind := indent
	if noIndentStart {
		ind = 0
	}
	prefix := pad(ind, false)

	switch {
	case v.Kind() == reflect.Map && isSetLike(v.Type()):
		return prefix + pf.setText(v)
	case v.Kind() == reflect.String:
		if pf.variant == reprVariant {
			return prefix + "u'''" + v.String() + "'''"
		}
		return prefix + v.String()
	case isByteSlice(v):
		decoded := decodeBytes(v.Bytes())
		if pf.variant == reprVariant {
			return prefix + "b'''" + decoded + "'''"
		}
		return prefix + decoded
	default:
		if !v.CanInterface() {
			return prefix + v.String()
		}
		if pf.variant == reprVariant {
			return prefix + fmt.Sprintf("%#v", v.Interface())
		}
		return prefix + fmt.Sprint(v.Interface())
	}
}

// setText renders a set-like map on one line: elements only, no recursion.
func (pf *PrettyFormat) setText(v reflect.Value) string {
	elems := make([]string, 0, v.Len())
	for _, key := range v.MapKeys() {
		elems = append(elems, pf.inlineText(key))
	}
	sort.Strings(elems)
	if pf.MaxIter > 0 && len(elems) > pf.MaxIter {
		elems = append(elems[:pf.MaxIter], "...")
	}
	return "set(" + strings.Join(elems, ", ") + ")"
}

// inlineText is the single-line, unpadded form of a scalar used for map
// keys and set elements.
func (pf *PrettyFormat) inlineText(v reflect.Value) string {
	return pf.processSimple(unwrapValue(v), 0, true)
}

func (pf *PrettyFormat) processMap(v reflect.Value, indent int) string {
	type mapEntry struct {
		key   string
		value reflect.Value
	}

	entries := make([]mapEntry, 0, v.Len())
	maxLen := 0
	iter := v.MapRange()
	for iter.Next() {
		key := pf.inlineText(iter.Key())
		if len(key) > maxLen {
			maxLen = len(key)
		}
		entries = append(entries, mapEntry{key: key, value: iter.Value()})
	}
	// Go maps do not preserve insertion order; sort by rendered key text
	// so output is stable across runs.
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	next := pf.NextIndent(indent, 1)
	var body strings.Builder
	for i, entry := range entries {
		if pf.MaxIter > 0 && i >= pf.MaxIter {
			body.WriteString("\n" + pad(next, false) + "...")
			break
		}
		fmt.Fprintf(&body, "\n%s%-*s: %s,",
			pad(next, false), maxLen, entry.key,
			pf.Process(entry.value.Interface(), pf.NextIndent(indent, 2), true))
	}
	return pf.frame(v.Type(), "{", body.String(), "}", indent)
}

func (pf *PrettyFormat) processStruct(v reflect.Value, indent int) string {
	t := v.Type()
	maxLen := 0
	fields := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if !v.Field(i).CanInterface() {
			continue
		}
		if n := len(t.Field(i).Name); n > maxLen {
			maxLen = n
		}
		fields = append(fields, i)
	}

	next := pf.NextIndent(indent, 1)
	var body strings.Builder
	for _, i := range fields {
		fmt.Fprintf(&body, "\n%s%-*s: %s,",
			pad(next, false), maxLen, t.Field(i).Name,
			pf.Process(v.Field(i).Interface(), pf.NextIndent(indent, 2), true))
	}
	return pf.frame(t, "{", body.String(), "}", indent)
}

func (pf *PrettyFormat) processSequence(v reflect.Value, indent int) string {
	next := pf.NextIndent(indent, 1)
	var body strings.Builder
	limit := v.Len()
	truncated := false
	if pf.MaxIter > 0 && limit > pf.MaxIter {
		limit = pf.MaxIter
		truncated = true
	}
	for i := 0; i < limit; i++ {
		elem := pf.Process(v.Index(i).Interface(), next, false)
		// containers open with their own newline, scalars need one
		if !strings.HasPrefix(elem, "\n") {
			body.WriteString("\n")
		}
		body.WriteString(elem)
		body.WriteString(",")
	}
	if truncated {
		body.WriteString("\n" + pad(next, false) + "...")
	}

	prefix, suffix := "[", "]"
	if v.Kind() == reflect.Array {
		prefix, suffix = "(", ")"
	}
	return pf.frame(v.Type(), prefix, body.String(), suffix, indent)
}

// frame wraps a rendered container body. The repr variant carries the
// runtime type name; the str variant shows bare brackets.
func (pf *PrettyFormat) frame(t reflect.Type, prefix, body, suffix string, indent int) string {
	p := pad(indent, false)
	if pf.variant == reprVariant {
		return "\n" + p + t.String() + "(" + prefix + body + "\n" + p + suffix + ")"
	}
	return "\n" + p + prefix + body + "\n" + p + suffix
}

// processCallable renders a function as a signature block: one declared
// parameter per line, bound values inlined, optional return annotation.
func (pf *PrettyFormat) processCallable(src any, v reflect.Value, indent int) string {
	var sig Signature
	if provider, ok := src.(SignatureProvider); ok {
		sig = provider.Signature()
	} else {
		sig = signatureOfValue(v)
	}

	next := pf.NextIndent(indent, 1)
	var params strings.Builder
	for _, param := range sig.Params {
		params.WriteString("\n" + pad(next, false) + param.DisplayName())
		if param.Annotation != emptyString {
			params.WriteString(": " + param.Annotation)
		}
		if param.hasDefault() {
			params.WriteString("=" + pf.Process(param.Default, indent, true))
		}
		params.WriteString(",")
	}
	paramStr := params.String()
	if paramStr != emptyString {
		paramStr += "\n" + pad(indent, false)
	}

	annotation := emptyString
	if sig.Return != emptyString {
		annotation = " -> " + sig.Return
	}
	return fmt.Sprintf("%s<func %s with interface (%s)%s>", pad(indent, false), sig.Name, paramStr, annotation)
}
