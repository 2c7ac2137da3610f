package logwrap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullSignature() Signature {
	return NewSignature("target",
		NewParameter("a", PositionalOrKeyword).WithAnnotation("int"),
		NewParameter("b", PositionalOrKeyword).WithDefault(2),
		NewParameter("args", VarPositional),
		NewParameter("c", KeywordOnly).WithDefault(3),
		NewParameter("kwargs", VarKeyword),
	)
}

func TestBindArgsDefaults(t *testing.T) {
	bound, err := BindArgs(fullSignature(), []any{1}, nil)
	require.NoError(t, err)
	require.Len(t, bound, 5)

	// Declaration order preserved, defaults applied, absent variadics
	// collapse to empty containers.
	require.Equal(t, "a", bound[0].Name)
	require.Equal(t, 1, bound[0].Value)
	require.Equal(t, 2, bound[1].Value)
	require.Equal(t, []any{}, bound[2].EffectiveValue())
	require.Equal(t, 3, bound[3].Value)
	require.Equal(t, map[string]any{}, bound[4].EffectiveValue())
}

func TestBindArgsVariadicCollection(t *testing.T) {
	bound, err := BindArgs(fullSignature(), []any{1, 2, 3, 4}, map[string]any{"c": 5, "extra": 6})
	require.NoError(t, err)

	require.Equal(t, []any{3, 4}, bound[2].Value)
	require.Equal(t, 5, bound[3].Value)
	require.Equal(t, map[string]any{"extra": 6}, bound[4].Value)
}

func TestBindArgsKeywordFillsPositional(t *testing.T) {
	sig := NewSignature("target",
		NewParameter("a", PositionalOrKeyword),
		NewParameter("b", PositionalOrKeyword),
	)
	bound, err := BindArgs(sig, []any{1}, map[string]any{"b": 2})
	require.NoError(t, err)
	require.Equal(t, 1, bound[0].Value)
	require.Equal(t, 2, bound[1].Value)
}

func TestBindArgsMissingRequired(t *testing.T) {
	sig := NewSignature("target", NewParameter("a", PositionalOrKeyword))
	_, err := BindArgs(sig, nil, nil)
	require.Error(t, err)

	var bindErr *BindingError
	require.ErrorAs(t, err, &bindErr)
	require.Equal(t, "a", bindErr.Param)
}

func TestBindArgsTooManyPositional(t *testing.T) {
	sig := NewSignature("target", NewParameter("a", PositionalOrKeyword))
	_, err := BindArgs(sig, []any{1, 2}, nil)
	require.Error(t, err)

	var bindErr *BindingError
	require.ErrorAs(t, err, &bindErr)
	require.Contains(t, bindErr.Reason, "too many positional arguments")
}

func TestBindArgsUnexpectedKeyword(t *testing.T) {
	sig := NewSignature("target", NewParameter("a", PositionalOrKeyword))
	_, err := BindArgs(sig, []any{1}, map[string]any{"zzz": 1})
	require.Error(t, err)

	var bindErr *BindingError
	require.ErrorAs(t, err, &bindErr)
	require.Equal(t, "zzz", bindErr.Param)
}

func TestBindArgsDuplicateValue(t *testing.T) {
	sig := NewSignature("target", NewParameter("a", PositionalOrKeyword))
	_, err := BindArgs(sig, []any{1}, map[string]any{"a": 2})
	require.Error(t, err)

	var bindErr *BindingError
	require.ErrorAs(t, err, &bindErr)
	require.Contains(t, bindErr.Reason, "multiple values")
}

func TestNewBoundParameterRequiresValueOrDefault(t *testing.T) {
	_, err := NewBoundParameter(NewParameter("a", PositionalOrKeyword), Empty)
	require.Error(t, err)

	// Variadic kinds tolerate an absent value.
	bp, err := NewBoundParameter(NewParameter("args", VarPositional), Empty)
	require.NoError(t, err)
	require.Equal(t, []any{}, bp.EffectiveValue())
}

func TestBoundParameterString(t *testing.T) {
	bp, err := NewBoundParameter(
		NewParameter("x", PositionalOrKeyword).WithDefault(1).WithAnnotation("int"), 5)
	require.NoError(t, err)
	require.Equal(t, "x: int=5  # 1", bp.String())

	varPos, err := NewBoundParameter(NewParameter("args", VarPositional), Empty)
	require.NoError(t, err)
	require.Equal(t, "*args=[]interface {}{}", varPos.String())

	varKw, err := NewBoundParameter(NewParameter("kwargs", VarKeyword), Empty)
	require.NoError(t, err)
	require.Equal(t, "**kwargs=map[string]interface {}{}", varKw.String())
}

func TestSignatureOf(t *testing.T) {
	sig, err := SignatureOf(sampleCallable)
	require.NoError(t, err)
	require.Equal(t, "logwrap-sub000.sampleCallable", sig.Name)
	require.Len(t, sig.Params, 2)
	require.Equal(t, PositionalOrKeyword, sig.Params[0].Kind)
	require.Equal(t, "int", sig.Params[0].Annotation)
	require.Equal(t, VarPositional, sig.Params[1].Kind)
	require.Equal(t, "string", sig.Params[1].Annotation)
	require.Equal(t, "error", sig.Return)

	_, err = SignatureOf(42)
	require.ErrorIs(t, err, ErrNotAFunction)
}

func TestSignatureOfMultipleResults(t *testing.T) {
	sig, err := SignatureOf(sampleDivide)
	require.NoError(t, err)
	require.Equal(t, "(int, error)", sig.Return)
}

func TestParamKindString(t *testing.T) {
	require.Equal(t, "POSITIONAL_ONLY", PositionalOnly.String())
	require.Equal(t, "POSITIONAL_OR_KEYWORD", PositionalOrKeyword.String())
	require.Equal(t, "VAR_POSITIONAL", VarPositional.String())
	require.Equal(t, "KEYWORD_ONLY", KeywordOnly.String())
	require.Equal(t, "VAR_KEYWORD", VarKeyword.String())
}
