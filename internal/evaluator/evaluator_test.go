package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/tsparse"
)

// helper parses `const <name> = <src>;` and returns the initializer; calls
// to vindurFn are unwrapped.
func helper(t *testing.T, src string) ast.Expr {
	t.Helper()
	f, err := tsparse.Parse("/src/helpers.ts", []byte("const fn = "+src+";\n"))
	require.NoError(t, err)
	value := f.Body[0].(*ast.VarDecl).Decls[0].Value
	if call, ok := value.(*ast.Call); ok {
		return call.Args[0]
	}
	return value
}

func compile(t *testing.T, src string) *CallableSpec {
	t.Helper()
	spec, err := Compile("fn", "/src/helpers.ts", helper(t, src))
	require.NoError(t, err)
	return spec
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		args []Value
		want string
	}{
		{"spacing", "(m: number) => `${m * 8}px`", []Value{Num(2)}, "16px"},
		{"concise arithmetic", "(a: number, b: number) => a + b", []Value{Num(1), Num(2)}, "3"},
		{"string concat", "(a: string) => a + '-x'", []Value{Str("b")}, "b-x"},
		{"fraction", "(n: number) => `${n / 4}rem`", []Value{Num(1)}, "0.25rem"},
		{"negation", "(n: number) => `${-n}px`", []Value{Num(3)}, "-3px"},
		{"return statement", "function (c: string) { return `color: ${c};`; }", []Value{Str("red")}, "color: red;"},
		{"optional missing", "(w?: number) => w !== undefined ? `width: ${w}px;` : ''", nil, ""},
		{"optional present", "(w?: number) => w !== undefined ? `width: ${w}px;` : ''", []Value{Num(4)}, "width: 4px;"},
		{"default", "(w = 10) => `${w}px`", nil, "10px"},
		{"boolean param", "(on: boolean) => on ? 'block' : 'none'", []Value{Boolean(false)}, "none"},
		{"comparison", "(n: number) => n > 2 ? 'big' : 'small'", []Value{Num(3)}, "big"},
		{"flipped comparison", "(n: number) => 2 > n ? 'small' : 'big'", []Value{Num(3)}, "big"},
		{"string equality", "(s: 'a' | 'b') => s === 'a' ? 'x' : s === 'b' ? 'y' : 'z'", []Value{Str("b")}, "y"},
		{"join", "(a: string, b: string) => [a, b].join(' ')", []Value{Str("1px"), Str("solid")}, "1px solid"},
		{
			"destructured defaults",
			"({ size = 4, unit = 'px' }: { size?: number; unit?: string }) => `${size}${unit}`",
			[]Value{Obj(map[string]Value{"size": Num(2)})},
			"2px",
		},
		{"vindurFn wrapper", "vindurFn((m: number) => `${m}em`)", []Value{Num(1.5)}, "1.5em"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := compile(t, tt.src)
			got, err := Evaluate(spec, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	spec := compile(t, "(n: number) => `${10 / n}px`")
	_, err := Evaluate(spec, []Value{Num(0)})
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.EvaluationError))
	assert.Contains(t, err.Error(), "division by zero")
	assert.Contains(t, err.Error(), "fn")
}

func TestEvaluateMissingRequired(t *testing.T) {
	spec := compile(t, "(n: number) => `${n}px`")
	_, err := Evaluate(spec, nil)
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.EvaluationError))
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason diag.Reason
		text   string
	}{
		{"async", "async (n: number) => `${n}`", diag.ReasonAsyncOrGenerator, ""},
		{"generator", "function* (n: number) { return n; }", diag.ReasonAsyncOrGenerator, ""},
		{"two statements", "function (n: number) { const x = n; return x; }", diag.ReasonComplexBody, ""},
		{"loose equality", "(n: number) => n == 1 ? 'a' : 'b'", diag.ReasonUnsupportedOperator, `"=="`},
		{"logical and", "(a: boolean, b: boolean) => a && b ? 'x' : 'y'", diag.ReasonUnsupportedOperator, `"&&"`},
		{"free variable", "(n: number) => `${n * base}px`", diag.ReasonExternalDependency, `"base"`},
		{"external call", "(n: number) => `${round(n)}px`", diag.ReasonExternalDependency, `"round"`},
		{"member access", "(n: number) => `${Math.PI * n}`", diag.ReasonMemberAccess, ""},
		{"param member access", "(o: { a: number }) => `${o.a}`", diag.ReasonMemberAccess, ""},
		{"compare two params", "(a: number, b: number) => a > b ? 'x' : 'y'", diag.ReasonTernaryCondition, ""},
		{"call in condition", "(a: number) => f(a) ? 'x' : 'y'", diag.ReasonTernaryCondition, ""},
		{"binary branch", "(a: number) => a > 1 ? a * 2 : 0", diag.ReasonTernaryBranch, ""},
		{"null comparison", "(a: number) => a === null ? 'x' : 'y'", diag.ReasonValueType, ""},
		{"non literal default", "(a = other) => `${a}`", diag.ReasonValueType, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("fn", "/src/helpers.ts", helper(t, tt.src))
			require.Error(t, err)
			d, ok := diag.As(err)
			require.True(t, ok)
			assert.Equal(t, diag.FunctionCompilationError, d.Kind)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Contains(t, err.Error(), "fn")
			assert.Contains(t, err.Error(), "/src/helpers.ts")
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
		})
	}
}

func TestFold(t *testing.T) {
	consts := map[string]Value{"base": Num(4), "unit": Str("px")}
	scope := ScopeFunc(func(name string, _ *ast.Ident) (Value, error) {
		if v, ok := consts[name]; ok {
			return v, nil
		}
		return Value{}, ErrNotConstant
	})

	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"base * 2", "8"},
		{"`${base * 2}${unit}`", "8px"},
		{"'a' + 1", "a1"},
		{"-base", "-4"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"(base) / 8", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := Fold(helper(t, tt.src), scope, "/src/a.ts")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Text())
		})
	}
}

func TestFoldErrors(t *testing.T) {
	_, err := Fold(helper(t, "unknown + 1"), nil, "/src/a.ts")
	assert.ErrorIs(t, err, ErrNotConstant)

	_, err = Fold(helper(t, "1 / 0"), nil, "/src/a.ts")
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.EvaluationError))
	assert.Contains(t, err.Error(), "division by zero")

	_, err = Fold(helper(t, "'a' * 2"), nil, "/src/a.ts")
	assert.True(t, diag.Is(err, diag.EvaluationError))
}
