package evaluator

import "github.com/lucasols/vindur-sub001/internal/ast"

// CallableSpec is a compiled style helper function.
type CallableSpec struct {
	Name   string
	File   string
	Params []ParamSpec
	Body   Node
	// Pos is the location of the helper's definition.
	Pos ast.Pos
}

// ParamSpec describes one parameter. Fields is set for destructured object
// parameters, in which case Name is empty.
type ParamSpec struct {
	Name     string
	Optional bool
	Default  *Value
	Fields   []FieldSpec
}

// FieldSpec is one property of a destructured parameter.
type FieldSpec struct {
	Key     string
	Name    string
	Default *Value
}

// Node is one node of a compiled helper body. The set of node types is
// closed; Evaluate switches over all of them.
type Node interface {
	programNode()
}

// Lit is a literal value.
type Lit struct {
	Value Value
}

// ParamRef reads a bound parameter (or destructured field) by local name.
type ParamRef struct {
	Name string
}

// Template is a template literal; len(Quasis) == len(Parts)+1.
type Template struct {
	Quasis []string
	Parts  []Node
}

// Binary is arithmetic or concatenation.
type Binary struct {
	Op          string
	Left, Right Node
}

// Unary is numeric negation or plus.
type Unary struct {
	Op string
	X  Node
}

// Condition is `param <op> value`, or a bare truthiness test when Op is "".
type Condition struct {
	Param string
	Op    string
	Value Value
}

// Ternary selects Then or Else by Cond.
type Ternary struct {
	Cond Condition
	Then Node
	Else Node
}

// Join is `[a, b, ...].join(sep)`.
type Join struct {
	Elems []Node
	Sep   string
}

func (Lit) programNode()      {}
func (ParamRef) programNode() {}
func (Template) programNode() {}
func (Binary) programNode()   {}
func (Unary) programNode()    {}
func (Ternary) programNode()  {}
func (Join) programNode()     {}
