package evaluator

import (
	"errors"
	"math"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
)

// ErrNotConstant is returned by Fold when an expression is outside the
// constant grammar. Callers treat it as "try the next resolution strategy";
// every other error is fatal.
var ErrNotConstant = errors.New("not a constant expression")

// Scope resolves identifiers met while folding.
type Scope interface {
	// Lookup returns the constant value of name. It returns an error
	// wrapping ErrNotConstant when name is bound to something that is not a
	// literal constant.
	Lookup(name string, ref *ast.Ident) (Value, error)
}

// ScopeFunc adapts a function to Scope.
type ScopeFunc func(name string, ref *ast.Ident) (Value, error)

func (f ScopeFunc) Lookup(name string, ref *ast.Ident) (Value, error) { return f(name, ref) }

// EmptyScope resolves nothing.
var EmptyScope Scope = ScopeFunc(func(string, *ast.Ident) (Value, error) {
	return Value{}, ErrNotConstant
})

// Fold evaluates a constant expression: literals, identifiers bound to
// constants, arithmetic, string concatenation, template literals and
// literal objects.
func Fold(e ast.Expr, scope Scope, file string) (Value, error) {
	if scope == nil {
		scope = EmptyScope
	}
	f := folder{scope: scope, file: file}
	return f.fold(e)
}

type folder struct {
	scope Scope
	file  string
}

func (f folder) fold(e ast.Expr) (Value, error) {
	switch e := ast.Unparen(e).(type) {
	case *ast.NumberLit:
		return Num(e.Value), nil
	case *ast.StringLit:
		return Str(e.Value), nil
	case *ast.BoolLit:
		return Boolean(e.Value), nil
	case *ast.UndefinedLit:
		return Undef(), nil
	case *ast.Ident:
		return f.scope.Lookup(e.Name, e)
	case *ast.TemplateLit:
		out := e.Quasis[0]
		for i, part := range e.Exprs {
			v, err := f.fold(part)
			if err != nil {
				return Value{}, err
			}
			out += v.Text() + e.Quasis[i+1]
		}
		return Str(out), nil
	case *ast.Unary:
		if e.Op != "-" && e.Op != "+" {
			return Value{}, ErrNotConstant
		}
		v, err := f.fold(e.X)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != Number {
			return Value{}, diag.New(diag.EvaluationError, f.file, e,
				"unary %s requires a number, got %s", e.Op, v.Kind)
		}
		if e.Op == "-" {
			return Num(-v.Num), nil
		}
		return v, nil
	case *ast.Binary:
		if !isArith(e.Op) {
			return Value{}, ErrNotConstant
		}
		left, err := f.fold(e.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := f.fold(e.Right)
		if err != nil {
			return Value{}, err
		}
		return arith(e.Op, left, right, f.file, e)
	case *ast.Object:
		fields := make(map[string]Value, len(e.Props))
		for _, p := range e.Props {
			if p.Spread || p.Computed {
				return Value{}, ErrNotConstant
			}
			v, err := f.fold(p.Value)
			if err != nil {
				return Value{}, err
			}
			fields[p.Key] = v
		}
		return Obj(fields), nil
	}
	return Value{}, ErrNotConstant
}

func isArith(op string) bool {
	switch op {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

// arith applies a binary arithmetic operator. `+` concatenates when either
// side is a string; the other operators require numbers.
func arith(op string, left, right Value, file string, at ast.Node) (Value, error) {
	if op == "+" && (left.Kind == String || right.Kind == String) {
		return Str(left.Text() + right.Text()), nil
	}
	if left.Kind != Number || right.Kind != Number {
		return Value{}, diag.New(diag.EvaluationError, file, at,
			"operator %s requires numbers, got %s and %s", op, left.Kind, right.Kind)
	}
	var out float64
	switch op {
	case "+":
		out = left.Num + right.Num
	case "-":
		out = left.Num - right.Num
	case "*":
		out = left.Num * right.Num
	case "/":
		if right.Num == 0 {
			return Value{}, diag.New(diag.EvaluationError, file, at, "division by zero")
		}
		out = left.Num / right.Num
	}
	if math.IsInf(out, 0) || math.IsNaN(out) {
		return Value{}, diag.New(diag.EvaluationError, file, at, "arithmetic result is not finite")
	}
	return Num(out), nil
}
