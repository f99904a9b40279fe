package evaluator

import (
	"fmt"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
)

// Compile turns a style helper definition (arrow function, function
// expression or function declaration) into a CallableSpec. The body must be
// a single expression or a single return statement built only from
// parameters, literals, arithmetic, template literals, restricted ternaries
// and array joins.
func Compile(name, file string, fn ast.Node) (*CallableSpec, error) {
	c := &compiler{name: name, file: file, bound: make(map[string]bool)}

	var (
		params []*ast.Param
		expr   ast.Expr
		block  *ast.Block
		async  bool
		gen    bool
	)
	switch fn := fn.(type) {
	case *ast.ArrowFunc:
		params, expr, block, async = fn.Params, fn.Expr, fn.Block, fn.Async
	case *ast.FuncExpr:
		params, block, async, gen = fn.Params, fn.Body, fn.Async, fn.Generator
	case *ast.FuncDecl:
		params, block, async, gen = fn.Params, fn.Body, fn.Async, fn.Generator
	default:
		return nil, c.fail(diag.ReasonComplexBody, fn, "helper must be an arrow function or a function")
	}
	if async || gen {
		return nil, c.fail(diag.ReasonAsyncOrGenerator, fn, "helper must be synchronous and not a generator")
	}

	spec := &CallableSpec{Name: name, File: file, Pos: fn.Loc().Start}
	for _, p := range params {
		ps, err := c.param(p)
		if err != nil {
			return nil, err
		}
		spec.Params = append(spec.Params, ps)
	}

	if expr == nil {
		if block == nil || len(block.Stmts) != 1 {
			return nil, c.fail(diag.ReasonComplexBody, fn, "helper body must be a single return statement")
		}
		ret, ok := block.Stmts[0].(*ast.Return)
		if !ok || ret.Value == nil {
			return nil, c.fail(diag.ReasonComplexBody, block.Stmts[0], "helper body must be a single return statement")
		}
		expr = ret.Value
	}

	body, err := c.expr(expr)
	if err != nil {
		return nil, err
	}
	spec.Body = body
	return spec, nil
}

type compiler struct {
	name  string
	file  string
	bound map[string]bool
}

func (c *compiler) fail(reason diag.Reason, n ast.Node, format string, args ...any) error {
	return diag.Compile(reason, c.name, c.file, n, format, args...)
}

func (c *compiler) param(p *ast.Param) (ParamSpec, error) {
	if p.Rest {
		return ParamSpec{}, c.fail(diag.ReasonComplexBody, p, "rest parameters are not supported")
	}
	ps := ParamSpec{Name: p.Name, Optional: p.Optional}
	if p.Default != nil {
		v, err := c.literal(p.Default)
		if err != nil {
			return ParamSpec{}, err
		}
		ps.Default = &v
		ps.Optional = true
	}
	if p.Pattern == nil {
		c.bound[p.Name] = true
		return ps, nil
	}
	for _, prop := range p.Pattern.Props {
		if prop.Rest {
			return ParamSpec{}, c.fail(diag.ReasonComplexBody, prop, "rest properties are not supported")
		}
		field := FieldSpec{Key: prop.Key, Name: prop.Name}
		if prop.Default != nil {
			v, err := c.literal(prop.Default)
			if err != nil {
				return ParamSpec{}, err
			}
			field.Default = &v
		}
		c.bound[prop.Name] = true
		ps.Fields = append(ps.Fields, field)
	}
	return ps, nil
}

// literal accepts only literal default values.
func (c *compiler) literal(e ast.Expr) (Value, error) {
	switch e := ast.Unparen(e).(type) {
	case *ast.NumberLit:
		return Num(e.Value), nil
	case *ast.StringLit:
		return Str(e.Value), nil
	case *ast.BoolLit:
		return Boolean(e.Value), nil
	case *ast.UndefinedLit:
		return Undef(), nil
	case *ast.Unary:
		if n, ok := ast.Unparen(e.X).(*ast.NumberLit); ok && e.Op == "-" {
			return Num(-n.Value), nil
		}
	case *ast.TemplateLit:
		if len(e.Exprs) == 0 {
			return Str(e.Quasis[0]), nil
		}
	}
	return Value{}, c.fail(diag.ReasonValueType, e, "default values must be literals, got %s", describe(e))
}

func (c *compiler) expr(e ast.Expr) (Node, error) {
	switch e := ast.Unparen(e).(type) {
	case *ast.NumberLit:
		return Lit{Value: Num(e.Value)}, nil
	case *ast.StringLit:
		return Lit{Value: Str(e.Value)}, nil
	case *ast.BoolLit:
		return Lit{Value: Boolean(e.Value)}, nil
	case *ast.UndefinedLit:
		return Lit{Value: Undef()}, nil
	case *ast.Ident:
		if !c.bound[e.Name] {
			return nil, c.fail(diag.ReasonExternalDependency, e, "references %q which is not a parameter", e.Name)
		}
		return ParamRef{Name: e.Name}, nil
	case *ast.TemplateLit:
		t := Template{Quasis: e.Quasis}
		for _, part := range e.Exprs {
			n, err := c.expr(part)
			if err != nil {
				return nil, err
			}
			t.Parts = append(t.Parts, n)
		}
		return t, nil
	case *ast.Binary:
		if !isArith(e.Op) {
			return nil, c.fail(diag.ReasonUnsupportedOperator, e, "operator %q is not supported", e.Op)
		}
		left, err := c.expr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.expr(e.Right)
		if err != nil {
			return nil, err
		}
		return Binary{Op: e.Op, Left: left, Right: right}, nil
	case *ast.Unary:
		if e.Op != "-" && e.Op != "+" {
			return nil, c.fail(diag.ReasonUnsupportedOperator, e, "operator %q is not supported", e.Op)
		}
		x, err := c.expr(e.X)
		if err != nil {
			return nil, err
		}
		return Unary{Op: e.Op, X: x}, nil
	case *ast.Conditional:
		return c.ternary(e)
	case *ast.Call:
		return c.call(e)
	case *ast.Member, *ast.Index:
		return nil, c.fail(diag.ReasonMemberAccess, e, "member access is not supported")
	case *ast.NullLit:
		return nil, c.fail(diag.ReasonValueType, e, "null values are not supported")
	}
	return nil, c.fail(diag.ReasonComplexBody, e, "unsupported expression %s", describe(e))
}

func (c *compiler) call(e *ast.Call) (Node, error) {
	m, ok := e.Callee.(*ast.Member)
	if !ok {
		if id, ok := e.Callee.(*ast.Ident); ok {
			return nil, c.fail(diag.ReasonExternalDependency, e, "calls external function %q", id.Name)
		}
		return nil, c.fail(diag.ReasonExternalDependency, e, "calls an external function")
	}
	arr, ok := ast.Unparen(m.Object).(*ast.Array)
	if !ok || m.Property != "join" {
		return nil, c.fail(diag.ReasonMemberAccess, e, "method call .%s is not supported", m.Property)
	}
	j := Join{Sep: ","}
	switch len(e.Args) {
	case 0:
	case 1:
		sep, ok := ast.Unparen(e.Args[0]).(*ast.StringLit)
		if !ok {
			return nil, c.fail(diag.ReasonValueType, e.Args[0], "join separator must be a string literal")
		}
		j.Sep = sep.Value
	default:
		return nil, c.fail(diag.ReasonComplexBody, e, "join takes at most one argument")
	}
	for _, el := range arr.Elems {
		n, err := c.expr(el)
		if err != nil {
			return nil, err
		}
		j.Elems = append(j.Elems, n)
	}
	return j, nil
}

var comparisonOps = map[string]bool{
	"===": true, "!==": true, ">": true, "<": true, ">=": true, "<=": true,
}

// flipped mirrors a comparison so the parameter is always on the left.
var flipped = map[string]string{
	"===": "===", "!==": "!==", ">": "<", "<": ">", ">=": "<=", "<=": ">=",
}

func (c *compiler) ternary(e *ast.Conditional) (Node, error) {
	cond, err := c.condition(e.Test)
	if err != nil {
		return nil, err
	}
	then, err := c.branch(e.Cons)
	if err != nil {
		return nil, err
	}
	els, err := c.branch(e.Alt)
	if err != nil {
		return nil, err
	}
	return Ternary{Cond: cond, Then: then, Else: els}, nil
}

func (c *compiler) condition(test ast.Expr) (Condition, error) {
	switch t := ast.Unparen(test).(type) {
	case *ast.Ident:
		if !c.bound[t.Name] {
			return Condition{}, c.fail(diag.ReasonExternalDependency, t, "references %q which is not a parameter", t.Name)
		}
		return Condition{Param: t.Name}, nil
	case *ast.Binary:
		if !comparisonOps[t.Op] {
			return Condition{}, c.fail(diag.ReasonUnsupportedOperator, t, "operator %q is not supported in conditions", t.Op)
		}
		op := t.Op
		param, other := ast.Unparen(t.Left), ast.Unparen(t.Right)
		if _, ok := param.(*ast.Ident); !ok {
			param, other = other, param
			op = flipped[op]
		}
		id, ok := param.(*ast.Ident)
		if !ok || !c.bound[id.Name] {
			return Condition{}, c.fail(diag.ReasonTernaryCondition, t, "condition must compare a parameter with a literal")
		}
		v, err := c.conditionValue(other)
		if err != nil {
			return Condition{}, err
		}
		if op != "===" && op != "!==" && v.Kind != Number && v.Kind != String {
			return Condition{}, c.fail(diag.ReasonValueType, other, "operator %q requires a number or string literal", op)
		}
		return Condition{Param: id.Name, Op: op, Value: v}, nil
	}
	return Condition{}, c.fail(diag.ReasonTernaryCondition, test, "unsupported condition %s", describe(test))
}

func (c *compiler) conditionValue(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return Num(e.Value), nil
	case *ast.StringLit:
		return Str(e.Value), nil
	case *ast.BoolLit:
		return Boolean(e.Value), nil
	case *ast.UndefinedLit:
		return Undef(), nil
	case *ast.Unary:
		if n, ok := ast.Unparen(e.X).(*ast.NumberLit); ok && e.Op == "-" {
			return Num(-n.Value), nil
		}
	case *ast.Ident:
		return Value{}, c.fail(diag.ReasonTernaryCondition, e, "condition must compare a parameter with a literal")
	}
	return Value{}, c.fail(diag.ReasonValueType, e, "unsupported value %s in condition", describe(e))
}

// branch accepts literals, parameters, templates and nested ternaries.
func (c *compiler) branch(e ast.Expr) (Node, error) {
	switch ast.Unparen(e).(type) {
	case *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.UndefinedLit,
		*ast.Ident, *ast.TemplateLit, *ast.Conditional:
		return c.expr(e)
	}
	return nil, c.fail(diag.ReasonTernaryBranch, e, "ternary branches must be literals, parameters or templates, got %s", describe(e))
}

func describe(e ast.Node) string {
	switch e := e.(type) {
	case *ast.Binary:
		return fmt.Sprintf("binary %q expression", e.Op)
	case *ast.Call:
		return "call expression"
	case *ast.Member, *ast.Index:
		return "member expression"
	case *ast.ArrowFunc, *ast.FuncExpr:
		return "function expression"
	case *ast.Object:
		return "object literal"
	case *ast.Array:
		return "array literal"
	case *ast.Ident:
		return fmt.Sprintf("identifier %q", e.Name)
	case *ast.Conditional:
		return "conditional expression"
	case *ast.TemplateLit:
		return "template literal"
	case *ast.NullLit:
		return "null"
	case *ast.Unknown:
		return e.Kind
	}
	return fmt.Sprintf("%T", e)
}
