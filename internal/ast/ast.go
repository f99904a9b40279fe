// Package ast is the syntax tree consumed by the style compiler.
//
// The tree is intentionally small: it models the statement and expression
// forms the compiler reasons about (imports, declarations, tagged templates,
// calls, functions, literals, JSX elements and type annotations) and keeps
// everything else as Unknown nodes whose children are still walkable. Every
// node carries a byte span plus 1-based line/column positions so diagnostics
// and source maps can point back into the original file.
package ast

// Pos is a location in a source file. Line and Column are 1-based; Column
// counts bytes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// Span is the half-open byte range [Start.Offset, End.Offset).
type Span struct {
	Start Pos
	End   Pos
}

// Node is implemented by every syntax tree node.
type Node interface {
	Loc() Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeNode is a type annotation node.
type TypeNode interface {
	Node
	typeNode()
}

// File is one parsed source file.
type File struct {
	Path   string
	Source []byte
	Body   []Stmt
}

// Text returns the source text covered by n.
func (f *File) Text(n Node) string {
	s := n.Loc()
	if s.Start.Offset < 0 || s.End.Offset > len(f.Source) || s.Start.Offset > s.End.Offset {
		return ""
	}
	return string(f.Source[s.Start.Offset:s.End.Offset])
}

// ---- statements ----

// ImportSpec is one imported binding. Imported is "default" for default
// imports and "*" for namespace imports.
type ImportSpec struct {
	Span     Span
	Imported string
	Local    string
}

// ImportDecl is an import statement.
type ImportDecl struct {
	Span     Span
	Source   string
	Specs    []ImportSpec
	TypeOnly bool
}

// Declarator is one binding of a variable declaration. Pattern is true when
// the binding is a destructuring pattern, in which case Name is empty.
type Declarator struct {
	Span    Span
	Name    string
	Pattern bool
	Type    TypeNode
	Value   Expr
}

// VarDecl is a const/let/var declaration.
type VarDecl struct {
	Span     Span
	Kind     string
	Decls    []*Declarator
	Exported bool
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	Span      Span
	Name      string
	Exported  bool
	Async     bool
	Generator bool
	Params    []*Param
	Body      *Block
}

// ExportSpec is one entry of an export clause.
type ExportSpec struct {
	Span     Span
	Local    string
	Exported string
}

// ExportNamed is `export { a, b as c }` with an optional `from` source.
type ExportNamed struct {
	Span   Span
	Specs  []ExportSpec
	Source string
}

// ExportDefault is `export default <expr>`.
type ExportDefault struct {
	Span  Span
	Value Expr
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	Span Span
	X    Expr
}

// Return is a return statement. Value is nil for a bare return.
type Return struct {
	Span  Span
	Value Expr
}

// Block is a braced statement list.
type Block struct {
	Span  Span
	Stmts []Stmt
}

// ---- expressions ----

// Ident is an identifier reference.
type Ident struct {
	Span Span
	Name string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Span  Span
	Value float64
	Raw   string
}

// StringLit is a quoted string literal with escapes decoded.
type StringLit struct {
	Span  Span
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Span  Span
	Value bool
}

// UndefinedLit is the undefined keyword.
type UndefinedLit struct {
	Span Span
}

// NullLit is the null keyword.
type NullLit struct {
	Span Span
}

// TemplateLit is an untagged template literal. Quasis holds the raw text
// segments; len(Quasis) == len(Exprs)+1.
type TemplateLit struct {
	Span   Span
	Quasis []string
	Exprs  []Expr
}

// TaggedTemplate is tag`...`, optionally with type arguments (tag<T>`...`).
type TaggedTemplate struct {
	Span     Span
	Tag      Expr
	TypeArgs []TypeNode
	Quasi    *TemplateLit
}

// Call is a call expression.
type Call struct {
	Span     Span
	Callee   Expr
	TypeArgs []TypeNode
	Args     []Expr
}

// Member is a non-computed property access (obj.prop).
type Member struct {
	Span     Span
	Object   Expr
	Property string
}

// Index is a computed property access (obj[expr]).
type Index struct {
	Span   Span
	Object Expr
	Key    Expr
}

// Binary is a binary or logical expression.
type Binary struct {
	Span  Span
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a prefix unary expression.
type Unary struct {
	Span Span
	Op   string
	X    Expr
}

// Conditional is the ternary operator.
type Conditional struct {
	Span Span
	Test Expr
	Cons Expr
	Alt  Expr
}

// ObjectPattern is a destructured object parameter or binding.
type ObjectPattern struct {
	Span  Span
	Props []*PatternProp
}

// PatternProp is one property of an object pattern. Name is the bound local.
type PatternProp struct {
	Span    Span
	Key     string
	Name    string
	Default Expr
	Rest    bool
}

// Param is a function parameter. Exactly one of Name or Pattern is set.
type Param struct {
	Span     Span
	Name     string
	Pattern  *ObjectPattern
	Optional bool
	Default  Expr
	Type     TypeNode
	Rest     bool
}

// ArrowFunc is an arrow function. Either Expr (concise body) or Block is set.
type ArrowFunc struct {
	Span   Span
	Async  bool
	Params []*Param
	Expr   Expr
	Block  *Block
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Span      Span
	Name      string
	Async     bool
	Generator bool
	Params    []*Param
	Body      *Block
}

// Property is a key/value entry of an object literal.
type Property struct {
	Span      Span
	Key       string
	Value     Expr
	Shorthand bool
	Spread    bool
	Computed  bool
}

// Object is an object literal.
type Object struct {
	Span  Span
	Props []*Property
}

// Array is an array literal.
type Array struct {
	Span  Span
	Elems []Expr
}

// JSXAttr is one attribute of a JSX element. Value is nil for bare boolean
// attributes.
type JSXAttr struct {
	Span  Span
	Name  string
	Value Expr
}

// JSXElement is a JSX element (self-closing or not).
type JSXElement struct {
	Span     Span
	Name     string
	Attrs    []*JSXAttr
	Children []Node
}

// Unknown is any construct the compiler does not model. Its converted
// children are kept so that nested style declarations are still found.
type Unknown struct {
	Span     Span
	Kind     string
	Children []Node
}

// ---- types ----

// TypeRef is a named or predefined type (boolean, string, Props).
type TypeRef struct {
	Span Span
	Name string
}

// LiteralType is a literal type such as 'sm' or 42.
type LiteralType struct {
	Span     Span
	Value    string
	IsString bool
}

// UnionType is a flattened union A | B | C.
type UnionType struct {
	Span  Span
	Types []TypeNode
}

// PropSig is a property signature inside an object type.
type PropSig struct {
	Span     Span
	Name     string
	Optional bool
	Type     TypeNode
}

// ObjectType is an object type literal { a: T; b?: U }.
type ObjectType struct {
	Span    Span
	Members []*PropSig
}

// OtherType is any type form not modelled above.
type OtherType struct {
	Span Span
	Kind string
}

func (n *ImportDecl) Loc() Span     { return n.Span }
func (n *Declarator) Loc() Span     { return n.Span }
func (n *VarDecl) Loc() Span        { return n.Span }
func (n *FuncDecl) Loc() Span       { return n.Span }
func (n *ExportNamed) Loc() Span    { return n.Span }
func (n *ExportDefault) Loc() Span  { return n.Span }
func (n *ExprStmt) Loc() Span       { return n.Span }
func (n *Return) Loc() Span         { return n.Span }
func (n *Block) Loc() Span          { return n.Span }
func (n *Ident) Loc() Span          { return n.Span }
func (n *NumberLit) Loc() Span      { return n.Span }
func (n *StringLit) Loc() Span      { return n.Span }
func (n *BoolLit) Loc() Span        { return n.Span }
func (n *UndefinedLit) Loc() Span   { return n.Span }
func (n *NullLit) Loc() Span        { return n.Span }
func (n *TemplateLit) Loc() Span    { return n.Span }
func (n *TaggedTemplate) Loc() Span { return n.Span }
func (n *Call) Loc() Span           { return n.Span }
func (n *Member) Loc() Span         { return n.Span }
func (n *Index) Loc() Span          { return n.Span }
func (n *Binary) Loc() Span         { return n.Span }
func (n *Unary) Loc() Span          { return n.Span }
func (n *Conditional) Loc() Span    { return n.Span }
func (n *ObjectPattern) Loc() Span  { return n.Span }
func (n *PatternProp) Loc() Span    { return n.Span }
func (n *Param) Loc() Span          { return n.Span }
func (n *ArrowFunc) Loc() Span      { return n.Span }
func (n *FuncExpr) Loc() Span       { return n.Span }
func (n *Property) Loc() Span       { return n.Span }
func (n *Object) Loc() Span         { return n.Span }
func (n *Array) Loc() Span          { return n.Span }
func (n *JSXAttr) Loc() Span        { return n.Span }
func (n *JSXElement) Loc() Span     { return n.Span }
func (n *Unknown) Loc() Span        { return n.Span }
func (n *TypeRef) Loc() Span        { return n.Span }
func (n *LiteralType) Loc() Span    { return n.Span }
func (n *UnionType) Loc() Span      { return n.Span }
func (n *PropSig) Loc() Span        { return n.Span }
func (n *ObjectType) Loc() Span     { return n.Span }
func (n *OtherType) Loc() Span      { return n.Span }

func (*ImportDecl) stmtNode()    {}
func (*VarDecl) stmtNode()       {}
func (*FuncDecl) stmtNode()      {}
func (*ExportNamed) stmtNode()   {}
func (*ExportDefault) stmtNode() {}
func (*ExprStmt) stmtNode()      {}
func (*Return) stmtNode()        {}
func (*Block) stmtNode()         {}
func (*Unknown) stmtNode()       {}

func (*Ident) exprNode()          {}
func (*NumberLit) exprNode()      {}
func (*StringLit) exprNode()      {}
func (*BoolLit) exprNode()        {}
func (*UndefinedLit) exprNode()   {}
func (*NullLit) exprNode()        {}
func (*TemplateLit) exprNode()    {}
func (*TaggedTemplate) exprNode() {}
func (*Call) exprNode()           {}
func (*Member) exprNode()         {}
func (*Index) exprNode()          {}
func (*Binary) exprNode()         {}
func (*Unary) exprNode()          {}
func (*Conditional) exprNode()    {}
func (*ArrowFunc) exprNode()      {}
func (*FuncExpr) exprNode()       {}
func (*Object) exprNode()         {}
func (*Array) exprNode()          {}
func (*JSXElement) exprNode()     {}
func (*Unknown) exprNode()        {}

func (*TypeRef) typeNode()     {}
func (*LiteralType) typeNode() {}
func (*UnionType) typeNode()   {}
func (*ObjectType) typeNode()  {}
func (*OtherType) typeNode()   {}
