package logwrap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrettyReprList(t *testing.T) {
	require.Equal(t, "\n[]int([\n    1,\n    2,\n    3,\n])", PrettyRepr([]int{1, 2, 3}))
}

func TestPrettyStrList(t *testing.T) {
	require.Equal(t, "\n[\n    1,\n    2,\n    3,\n]", PrettyStr([]int{1, 2, 3}))
}

func TestPrettyReprArrayAsTuple(t *testing.T) {
	require.Equal(t, "\n[2]int((\n    1,\n    2,\n))", PrettyRepr([2]int{1, 2}))
}

func TestPrettyReprMapKeyAlignment(t *testing.T) {
	src := map[int]int{1: 1, 2: 2, 33: 33}
	require.Equal(t, "\nmap[int]int({\n    1 : 1,\n    2 : 2,\n    33: 33,\n})", PrettyRepr(src))
}

func TestPrettyStrMapOmitsTypeName(t *testing.T) {
	src := map[int]int{1: 1, 33: 33}
	require.Equal(t, "\n{\n    1 : 1,\n    33: 33,\n}", PrettyStr(src))
}

func TestPrettySet(t *testing.T) {
	// Empty set renders single-line in both variants.
	require.Equal(t, "set()", PrettyStr(map[string]struct{}{}))
	require.Equal(t, "set()", PrettyRepr(map[string]struct{}{}))

	// Non-empty sets never recurse into elements.
	src := map[string]struct{}{"b": {}, "a": {}}
	require.Equal(t, "set(a, b)", PrettyStr(src))
	require.Equal(t, "set(u'''a''', u'''b''')", PrettyRepr(src))
}

func TestPrettyTextValues(t *testing.T) {
	require.Equal(t, "u'''hello'''", PrettyRepr("hello"))
	require.Equal(t, "hello", PrettyStr("hello"))

	require.Equal(t, "b'''hi'''", PrettyRepr([]byte("hi")))
	require.Equal(t, "hi", PrettyStr([]byte("hi")))
}

func TestPrettyBytesDecodePermissive(t *testing.T) {
	// Invalid UTF-8 bytes become \xNN escapes, never an error.
	src := []byte{'h', 'i', 0xff}
	require.Equal(t, `b'''hi\xff'''`, PrettyRepr(src))
	require.Equal(t, `hi\xff`, PrettyStr(src))
}

func TestPrettyPrimitives(t *testing.T) {
	require.Equal(t, "1", PrettyRepr(1))
	require.Equal(t, "1", PrettyStr(1))
	require.Equal(t, "true", PrettyRepr(true))
	require.Equal(t, "2.5", PrettyStr(2.5))
	require.Equal(t, nilText, PrettyRepr(nil))
	require.Equal(t, nilText, PrettyStr(nil))
}

func TestPrettyReprMaxIndentBoundary(t *testing.T) {
	pf := NewPrettyRepr()

	// At the indent budget any container falls back to single-line form.
	out := pf.Process([]int{1, 2, 3}, pf.MaxIndent, false)
	require.Equal(t, strings.Repeat(" ", pf.MaxIndent)+"[]int{1, 2, 3}", out)

	// One level below the budget the multi-line form still applies.
	out = pf.Process([]int{1}, pf.MaxIndent-pf.IndentStep, false)
	require.Contains(t, out, "[]int([")
}

func TestPrettyReprEmptyContainerSingleLine(t *testing.T) {
	require.Equal(t, "[]int{}", PrettyRepr([]int{}))
	require.Equal(t, "map[int]int{}", PrettyRepr(map[int]int{}))
}

func TestPrettyReprNestedMapValueIndent(t *testing.T) {
	src := map[string][]int{"a": {1, 2}}
	expected := "\nmap[string][]int({\n    u'''a''': \n        []int([\n            1,\n            2,\n        ]),\n})"
	require.Equal(t, expected, PrettyRepr(src))
}

func TestPrettyReprStruct(t *testing.T) {
	type pair struct {
		X int
		Y int
	}
	require.Equal(t, "\nlogwrap.pair({\n    X: 1,\n    Y: 2,\n})", PrettyRepr(pair{X: 1, Y: 2}))
}

func TestPrettyReprStructSkipsUnexported(t *testing.T) {
	type mixed struct {
		Visible int
		hidden  int
	}
	out := PrettyRepr(mixed{Visible: 1, hidden: 2})
	require.Contains(t, out, "Visible: 1,")
	require.NotContains(t, out, "hidden")
}

func TestPrettyReprPointerUnwrap(t *testing.T) {
	src := []int{1, 2}
	require.Equal(t, PrettyRepr(src), PrettyRepr(&src))

	var nilPtr *int
	require.Equal(t, nilText, PrettyRepr(nilPtr))
}

func TestPrettyReprMaxIter(t *testing.T) {
	pf := NewPrettyRepr()
	pf.MaxIter = 2
	out := pf.Process([]int{1, 2, 3, 4}, 0, false)
	require.Equal(t, "\n[]int([\n    1,\n    2,\n    ...\n])", out)
}

func TestPrettyIdempotence(t *testing.T) {
	src := map[string]any{
		"numbers": []int{1, 2, 3},
		"nested":  map[int]string{1: "one", 22: "twenty-two"},
		"flag":    true,
	}
	first := PrettyRepr(src)
	second := PrettyRepr(src)
	require.Equal(t, first, second)
	require.Equal(t, PrettyStr(src), PrettyStr(src))
}

type customRendered struct{}

func (customRendered) PrettyRepr(_ *PrettyFormat, indent int, _ bool) string {
	return fmt.Sprintf("custom-repr@%d", indent)
}

func (customRendered) PrettyStr(_ *PrettyFormat, indent int, _ bool) string {
	return fmt.Sprintf("custom-str@%d", indent)
}

func TestPrettyCustomRendererHook(t *testing.T) {
	require.Equal(t, "custom-repr@0", PrettyRepr(customRendered{}))
	require.Equal(t, "custom-str@0", PrettyStr(customRendered{}))

	// The hook wins even inside containers and receives the real indent.
	out := PrettyRepr([]customRendered{{}})
	require.Contains(t, out, "custom-repr@4")
}

func TestPrettyReprCallable(t *testing.T) {
	expected := "<func logwrap-sub000.sampleCallable with interface (" +
		"\n    arg0: int,\n    *arg1: string,\n) -> error>"
	require.Equal(t, expected, PrettyRepr(sampleCallable))
}

type describedFunc func(int) int

func (describedFunc) Signature() Signature {
	return NewSignature("bound",
		NewParameter("self", PositionalOrKeyword).WithDefault("owner"),
		NewParameter("x", PositionalOrKeyword).WithAnnotation("int"),
	).WithReturn("int")
}

func TestPrettyReprCallableWithProvidedSignature(t *testing.T) {
	var fn describedFunc = func(x int) int { return x }
	expected := "<func bound with interface (" +
		"\n    self=u'''owner''',\n    x: int,\n) -> int>"
	require.Equal(t, expected, PrettyRepr(fn))
}

type noArgFunc func()

func (noArgFunc) Signature() Signature { return NewSignature("none") }

func TestPrettyReprNoArgsCallable(t *testing.T) {
	var fn noArgFunc = func() {}
	require.Equal(t, "<func none with interface ()>", PrettyRepr(fn))
}
