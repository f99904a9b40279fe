package evaluator

import (
	"fmt"
	"strings"

	"github.com/lucasols/vindur-sub001/internal/diag"
)

// Evaluate runs spec against already-folded argument values and returns
// the produced CSS fragment. Missing optional arguments are undefined;
// defaults apply when an argument is missing or undefined.
func Evaluate(spec *CallableSpec, args []Value) (string, error) {
	env := make(map[string]Value)
	for i, p := range spec.Params {
		var arg Value
		if i < len(args) {
			arg = args[i]
		}
		if arg.Kind == Undefined && p.Default != nil {
			arg = *p.Default
		}
		if p.Fields == nil {
			if arg.Kind == Undefined && !p.Optional && i >= len(args) {
				return "", evalErr(spec, "missing required argument %q", p.Name)
			}
			env[p.Name] = arg
			continue
		}
		switch arg.Kind {
		case Object:
		case Undefined:
			if !p.Optional {
				return "", evalErr(spec, "missing required object argument at position %d", i+1)
			}
		default:
			return "", evalErr(spec, "argument %d must be an object literal, got %s", i+1, arg.Kind)
		}
		for _, f := range p.Fields {
			v, ok := arg.Fields[f.Key]
			if (!ok || v.Kind == Undefined) && f.Default != nil {
				v = *f.Default
			}
			env[f.Name] = v
		}
	}

	e := evaluation{spec: spec, env: env}
	v, err := e.eval(spec.Body)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

func evalErr(spec *CallableSpec, format string, args ...any) *diag.Error {
	return &diag.Error{
		Kind: diag.EvaluationError,
		File: spec.File,
		Pos:  diag.Pos{Line: spec.Pos.Line, Column: spec.Pos.Column},
		Msg:  fmt.Sprintf("%s: %s", spec.Name, fmt.Sprintf(format, args...)),
	}
}

type evaluation struct {
	spec *CallableSpec
	env  map[string]Value
}

func (e evaluation) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case Lit:
		return n.Value, nil
	case ParamRef:
		return e.env[n.Name], nil
	case Template:
		var sb strings.Builder
		sb.WriteString(n.Quasis[0])
		for i, part := range n.Parts {
			v, err := e.eval(part)
			if err != nil {
				return Value{}, err
			}
			sb.WriteString(v.Text())
			sb.WriteString(n.Quasis[i+1])
		}
		return Str(sb.String()), nil
	case Binary:
		left, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		v, err := arith(n.Op, left, right, e.spec.File, nil)
		if err != nil {
			return Value{}, e.wrap(err)
		}
		return v, nil
	case Unary:
		x, err := e.eval(n.X)
		if err != nil {
			return Value{}, err
		}
		if x.Kind != Number {
			return Value{}, evalErr(e.spec, "unary %s requires a number, got %s", n.Op, x.Kind)
		}
		if n.Op == "-" {
			return Num(-x.Num), nil
		}
		return x, nil
	case Ternary:
		if e.test(n.Cond) {
			return e.eval(n.Then)
		}
		return e.eval(n.Else)
	case Join:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			v, err := e.eval(el)
			if err != nil {
				return Value{}, err
			}
			// join renders undefined elements as empty strings
			if v.Kind != Undefined {
				parts[i] = v.Text()
			}
		}
		return Str(strings.Join(parts, n.Sep)), nil
	}
	return Value{}, evalErr(e.spec, "unknown program node %T", n)
}

func (e evaluation) wrap(err error) error {
	if d, ok := diag.As(err); ok {
		d.Pos = diag.Pos{Line: e.spec.Pos.Line, Column: e.spec.Pos.Column}
		d.Msg = e.spec.Name + ": " + d.Msg
		return d
	}
	return err
}

func (e evaluation) test(c Condition) bool {
	v := e.env[c.Param]
	switch c.Op {
	case "":
		return v.Truthy()
	case "===":
		return v.Equal(c.Value)
	case "!==":
		return !v.Equal(c.Value)
	}
	// relational operators only compare like kinds
	if v.Kind != c.Value.Kind {
		return false
	}
	switch v.Kind {
	case Number:
		return compare(c.Op, v.Num-c.Value.Num)
	case String:
		return compare(c.Op, float64(strings.Compare(v.Str, c.Value.Str)))
	}
	return false
}

func compare(op string, diff float64) bool {
	switch op {
	case ">":
		return diff > 0
	case "<":
		return diff < 0
	case ">=":
		return diff >= 0
	case "<=":
		return diff <= 0
	}
	return false
}
