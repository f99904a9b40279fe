// Package tsparse converts TypeScript, TSX and JavaScript sources into the
// compiler's syntax tree using tree-sitter grammars.
package tsparse

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/lucasols/vindur-sub001/internal/ast"
)

var (
	languagesOnce sync.Once
	langTSX       *sitter.Language
	langTS        *sitter.Language
	langJS        *sitter.Language
)

func loadLanguages() {
	languagesOnce.Do(func() {
		langTSX = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		langTS = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		langJS = sitter.NewLanguage(tree_sitter_javascript.Language())
	})
}

// languageFor picks the grammar from the file extension. Plain .ts files use
// the TypeScript grammar so that `<T>(x)` casts parse; everything else uses
// TSX, except .js/.mjs/.cjs which use the JavaScript grammar.
func languageFor(path string) *sitter.Language {
	loadLanguages()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return langTS
	case ".js", ".mjs", ".cjs":
		return langJS
	default:
		return langTSX
	}
}

// Parser implements the resolver's parser collaborator.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse parses src as the file at path.
func (p *Parser) Parse(path string, src []byte) (*ast.File, error) {
	return Parse(path, src)
}

// Parse parses src as the file at path.
func Parse(path string, src []byte) (*ast.File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(languageFor(path)); err != nil {
		return nil, fmt.Errorf("set language for %s: %w", path, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: parser returned no tree", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := bad.StartPosition()
			return nil, fmt.Errorf("parse %s:%d:%d: syntax error", path, pos.Row+1, pos.Column+1)
		}
		return nil, fmt.Errorf("parse %s: syntax error", path)
	}

	c := &converter{src: src, lines: lineOffsets(src)}
	file := &ast.File{Path: path, Source: src}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		file.Body = append(file.Body, c.stmt(child))
	}
	return file, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

func lineOffsets(src []byte) []int {
	offs := []int{0}
	for i, b := range src {
		if b == '\n' {
			offs = append(offs, i+1)
		}
	}
	return offs
}

type converter struct {
	src   []byte
	lines []int
}

func (c *converter) pos(offset int) ast.Pos {
	// binary search for the line containing offset
	lo, hi := 0, len(c.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return ast.Pos{Offset: offset, Line: lo + 1, Column: offset - c.lines[lo] + 1}
}

func (c *converter) span(n *sitter.Node) ast.Span {
	return ast.Span{Start: c.pos(int(n.StartByte())), End: c.pos(int(n.EndByte()))}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start >= end || end > uint(len(c.src)) {
		return ""
	}
	return string(c.src[start:end])
}

// namedChildren returns the named, non-comment children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

// hasToken reports whether n has a direct anonymous child token equal to tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == tok {
			return true
		}
	}
	return false
}

// ---- statements ----

func (c *converter) stmt(n *sitter.Node) ast.Stmt {
	switch n.Kind() {
	case "import_statement":
		return c.importDecl(n)
	case "lexical_declaration", "variable_declaration":
		return c.varDecl(n)
	case "function_declaration", "generator_function_declaration":
		return c.funcDecl(n)
	case "export_statement":
		return c.exportStmt(n)
	case "expression_statement":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return c.unknown(n)
		}
		return &ast.ExprStmt{Span: c.span(n), X: c.expr(kids[0])}
	case "return_statement":
		r := &ast.Return{Span: c.span(n)}
		if kids := namedChildren(n); len(kids) > 0 {
			r.Value = c.expr(kids[0])
		}
		return r
	case "statement_block":
		return c.block(n)
	}
	return c.unknown(n)
}

func (c *converter) block(n *sitter.Node) *ast.Block {
	b := &ast.Block{Span: c.span(n)}
	for _, child := range namedChildren(n) {
		b.Stmts = append(b.Stmts, c.stmt(child))
	}
	return b
}

func (c *converter) importDecl(n *sitter.Node) *ast.ImportDecl {
	decl := &ast.ImportDecl{
		Span:     c.span(n),
		Source:   c.stringValue(n.ChildByFieldName("source")),
		TypeOnly: hasToken(n, "type"),
	}
	for _, child := range namedChildren(n) {
		if child.Kind() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(child) {
			switch part.Kind() {
			case "identifier":
				decl.Specs = append(decl.Specs, ast.ImportSpec{
					Span: c.span(part), Imported: "default", Local: c.text(part),
				})
			case "namespace_import":
				for _, id := range namedChildren(part) {
					if id.Kind() == "identifier" {
						decl.Specs = append(decl.Specs, ast.ImportSpec{
							Span: c.span(part), Imported: "*", Local: c.text(id),
						})
					}
				}
			case "named_imports":
				for _, spec := range namedChildren(part) {
					if spec.Kind() != "import_specifier" || hasToken(spec, "type") {
						continue
					}
					name := c.moduleExportName(spec.ChildByFieldName("name"))
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = c.text(alias)
					}
					decl.Specs = append(decl.Specs, ast.ImportSpec{
						Span: c.span(spec), Imported: name, Local: local,
					})
				}
			}
		}
	}
	return decl
}

func (c *converter) moduleExportName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "string" {
		return c.stringValue(n)
	}
	return c.text(n)
}

func (c *converter) varDecl(n *sitter.Node) *ast.VarDecl {
	decl := &ast.VarDecl{Span: c.span(n), Kind: "var"}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		decl.Kind = c.text(kind)
	}
	for _, child := range namedChildren(n) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		d := &ast.Declarator{Span: c.span(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			if name.Kind() == "identifier" {
				d.Name = c.text(name)
			} else {
				d.Pattern = true
			}
		}
		if typ := child.ChildByFieldName("type"); typ != nil {
			d.Type = c.typeAnnotation(typ)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Value = c.expr(value)
		}
		decl.Decls = append(decl.Decls, d)
	}
	return decl
}

func (c *converter) funcDecl(n *sitter.Node) *ast.FuncDecl {
	fn := &ast.FuncDecl{
		Span:      c.span(n),
		Name:      c.text(n.ChildByFieldName("name")),
		Async:     hasToken(n, "async"),
		Generator: n.Kind() == "generator_function_declaration",
		Params:    c.params(n.ChildByFieldName("parameters")),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = c.block(body)
	}
	return fn
}

func (c *converter) exportStmt(n *sitter.Node) ast.Stmt {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		if hasToken(n, "default") {
			return &ast.ExportDefault{Span: c.span(n), Value: c.expr(decl)}
		}
		switch s := c.stmt(decl).(type) {
		case *ast.VarDecl:
			s.Exported = true
			s.Span = c.span(n)
			return s
		case *ast.FuncDecl:
			s.Exported = true
			s.Span = c.span(n)
			return s
		default:
			return s
		}
	}
	if value := n.ChildByFieldName("value"); value != nil {
		return &ast.ExportDefault{Span: c.span(n), Value: c.expr(value)}
	}
	for _, child := range namedChildren(n) {
		if child.Kind() != "export_clause" {
			continue
		}
		exp := &ast.ExportNamed{Span: c.span(n), Source: c.stringValue(n.ChildByFieldName("source"))}
		for _, spec := range namedChildren(child) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			local := c.moduleExportName(spec.ChildByFieldName("name"))
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = c.moduleExportName(alias)
			}
			exp.Specs = append(exp.Specs, ast.ExportSpec{Span: c.span(spec), Local: local, Exported: exported})
		}
		return exp
	}
	return c.unknown(n)
}

// ---- expressions ----

func (c *converter) expr(n *sitter.Node) ast.Expr {
	sp := c.span(n)
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier", "property_identifier":
		name := c.text(n)
		if name == "undefined" {
			return &ast.UndefinedLit{Span: sp}
		}
		return &ast.Ident{Span: sp, Name: name}
	case "undefined":
		return &ast.UndefinedLit{Span: sp}
	case "null":
		return &ast.NullLit{Span: sp}
	case "true":
		return &ast.BoolLit{Span: sp, Value: true}
	case "false":
		return &ast.BoolLit{Span: sp, Value: false}
	case "number":
		raw := c.text(n)
		return &ast.NumberLit{Span: sp, Value: parseNumber(raw), Raw: raw}
	case "string":
		return &ast.StringLit{Span: sp, Value: c.stringValue(n)}
	case "template_string":
		return c.template(n)
	case "parenthesized_expression":
		if kids := namedChildren(n); len(kids) > 0 {
			return c.expr(kids[0])
		}
	case "call_expression":
		return c.call(n)
	case "member_expression":
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj != nil && prop != nil {
			return &ast.Member{Span: sp, Object: c.expr(obj), Property: c.text(prop)}
		}
	case "subscript_expression":
		obj := n.ChildByFieldName("object")
		idx := n.ChildByFieldName("index")
		if obj != nil && idx != nil {
			return &ast.Index{Span: sp, Object: c.expr(obj), Key: c.expr(idx)}
		}
	case "binary_expression":
		left, right, op := n.ChildByFieldName("left"), n.ChildByFieldName("right"), n.ChildByFieldName("operator")
		if left != nil && right != nil && op != nil {
			return &ast.Binary{Span: sp, Op: c.text(op), Left: c.expr(left), Right: c.expr(right)}
		}
	case "unary_expression":
		arg, op := n.ChildByFieldName("argument"), n.ChildByFieldName("operator")
		if arg != nil && op != nil {
			return &ast.Unary{Span: sp, Op: c.text(op), X: c.expr(arg)}
		}
	case "ternary_expression":
		test, cons, alt := n.ChildByFieldName("condition"), n.ChildByFieldName("consequence"), n.ChildByFieldName("alternative")
		if test != nil && cons != nil && alt != nil {
			return &ast.Conditional{Span: sp, Test: c.expr(test), Cons: c.expr(cons), Alt: c.expr(alt)}
		}
	case "arrow_function":
		return c.arrow(n)
	case "function_expression", "function", "generator_function":
		fn := &ast.FuncExpr{
			Span:      sp,
			Name:      c.text(n.ChildByFieldName("name")),
			Async:     hasToken(n, "async"),
			Generator: n.Kind() == "generator_function" || hasToken(n, "*"),
			Params:    c.params(n.ChildByFieldName("parameters")),
		}
		if body := n.ChildByFieldName("body"); body != nil {
			fn.Body = c.block(body)
		}
		return fn
	case "object":
		return c.object(n)
	case "array":
		arr := &ast.Array{Span: sp}
		for _, el := range namedChildren(n) {
			arr.Elems = append(arr.Elems, c.expr(el))
		}
		return arr
	case "jsx_element", "jsx_self_closing_element":
		return c.jsx(n)
	}
	return c.unknown(n)
}

func (c *converter) unknown(n *sitter.Node) *ast.Unknown {
	u := &ast.Unknown{Span: c.span(n), Kind: n.Kind()}
	for _, child := range namedChildren(n) {
		u.Children = append(u.Children, c.any(child))
	}
	return u
}

// any converts n as a statement when it is one, otherwise as an expression.
func (c *converter) any(n *sitter.Node) ast.Node {
	switch n.Kind() {
	case "import_statement", "lexical_declaration", "variable_declaration",
		"function_declaration", "generator_function_declaration", "export_statement",
		"expression_statement", "return_statement", "statement_block":
		return c.stmt(n)
	case "type_annotation", "type_arguments":
		return c.typeNode(n)
	}
	return c.expr(n)
}

func (c *converter) call(n *sitter.Node) ast.Expr {
	sp := c.span(n)
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil {
		return c.unknown(n)
	}
	var typeArgs []ast.TypeNode
	if ta := n.ChildByFieldName("type_arguments"); ta != nil {
		for _, t := range namedChildren(ta) {
			typeArgs = append(typeArgs, c.typeNode(t))
		}
	}
	if args.Kind() == "template_string" {
		return &ast.TaggedTemplate{Span: sp, Tag: c.expr(fn), TypeArgs: typeArgs, Quasi: c.template(args)}
	}
	call := &ast.Call{Span: sp, Callee: c.expr(fn), TypeArgs: typeArgs}
	for _, a := range namedChildren(args) {
		call.Args = append(call.Args, c.expr(a))
	}
	return call
}

// template splits a template_string node into raw text segments and
// substitutions using byte offsets, so escapes stay exactly as written.
func (c *converter) template(n *sitter.Node) *ast.TemplateLit {
	t := &ast.TemplateLit{Span: c.span(n)}
	cur := int(n.StartByte()) + 1
	end := int(n.EndByte()) - 1
	for _, child := range namedChildren(n) {
		if child.Kind() != "template_substitution" {
			continue
		}
		t.Quasis = append(t.Quasis, string(c.src[cur:int(child.StartByte())]))
		kids := namedChildren(child)
		if len(kids) > 0 {
			t.Exprs = append(t.Exprs, c.expr(kids[0]))
		} else {
			t.Exprs = append(t.Exprs, &ast.UndefinedLit{Span: c.span(child)})
		}
		cur = int(child.EndByte())
	}
	if cur > end {
		cur = end
	}
	t.Quasis = append(t.Quasis, string(c.src[cur:end]))
	return t
}

func (c *converter) arrow(n *sitter.Node) *ast.ArrowFunc {
	fn := &ast.ArrowFunc{Span: c.span(n), Async: hasToken(n, "async")}
	if p := n.ChildByFieldName("parameter"); p != nil {
		fn.Params = []*ast.Param{{Span: c.span(p), Name: c.text(p)}}
	} else {
		fn.Params = c.params(n.ChildByFieldName("parameters"))
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "statement_block" {
			fn.Block = c.block(body)
		} else {
			fn.Expr = c.expr(body)
		}
	}
	return fn
}

func (c *converter) params(n *sitter.Node) []*ast.Param {
	if n == nil {
		return nil
	}
	var out []*ast.Param
	for _, child := range namedChildren(n) {
		out = append(out, c.param(child))
	}
	return out
}

func (c *converter) param(n *sitter.Node) *ast.Param {
	p := &ast.Param{Span: c.span(n)}
	target := n
	switch n.Kind() {
	case "required_parameter", "optional_parameter":
		p.Optional = n.Kind() == "optional_parameter"
		if typ := n.ChildByFieldName("type"); typ != nil {
			p.Type = c.typeAnnotation(typ)
		}
		if value := n.ChildByFieldName("value"); value != nil {
			p.Default = c.expr(value)
		}
		if pat := n.ChildByFieldName("pattern"); pat != nil {
			target = pat
		}
	case "assignment_pattern":
		if right := n.ChildByFieldName("right"); right != nil {
			p.Default = c.expr(right)
		}
		if left := n.ChildByFieldName("left"); left != nil {
			target = left
		}
	}

	switch target.Kind() {
	case "identifier":
		p.Name = c.text(target)
	case "object_pattern":
		p.Pattern = c.objectPattern(target)
	case "rest_pattern":
		p.Rest = true
		if kids := namedChildren(target); len(kids) > 0 {
			p.Name = c.text(kids[0])
		}
	default:
		p.Name = c.text(target)
	}
	return p
}

func (c *converter) objectPattern(n *sitter.Node) *ast.ObjectPattern {
	pat := &ast.ObjectPattern{Span: c.span(n)}
	for _, child := range namedChildren(n) {
		prop := &ast.PatternProp{Span: c.span(child)}
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			prop.Key = c.text(child)
			prop.Name = prop.Key
		case "object_assignment_pattern":
			left := child.ChildByFieldName("left")
			prop.Key = c.text(left)
			prop.Name = prop.Key
			if right := child.ChildByFieldName("right"); right != nil {
				prop.Default = c.expr(right)
			}
		case "pair_pattern":
			prop.Key = c.propertyKey(child.ChildByFieldName("key"))
			value := child.ChildByFieldName("value")
			if value != nil && value.Kind() == "assignment_pattern" {
				prop.Name = c.text(value.ChildByFieldName("left"))
				if right := value.ChildByFieldName("right"); right != nil {
					prop.Default = c.expr(right)
				}
			} else {
				prop.Name = c.text(value)
			}
		case "rest_pattern":
			prop.Rest = true
			if kids := namedChildren(child); len(kids) > 0 {
				prop.Name = c.text(kids[0])
			}
		default:
			prop.Key = c.text(child)
			prop.Name = prop.Key
		}
		pat.Props = append(pat.Props, prop)
	}
	return pat
}

func (c *converter) propertyKey(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case "string":
		return c.stringValue(n)
	case "computed_property_name":
		return c.text(n)
	}
	return c.text(n)
}

func (c *converter) object(n *sitter.Node) *ast.Object {
	obj := &ast.Object{Span: c.span(n)}
	for _, child := range namedChildren(n) {
		prop := &ast.Property{Span: c.span(child)}
		switch child.Kind() {
		case "pair":
			key := child.ChildByFieldName("key")
			prop.Key = c.propertyKey(key)
			prop.Computed = key != nil && key.Kind() == "computed_property_name"
			if value := child.ChildByFieldName("value"); value != nil {
				prop.Value = c.expr(value)
			}
		case "shorthand_property_identifier":
			prop.Key = c.text(child)
			prop.Shorthand = true
			prop.Value = &ast.Ident{Span: prop.Span, Name: prop.Key}
		case "spread_element":
			prop.Spread = true
			if kids := namedChildren(child); len(kids) > 0 {
				prop.Value = c.expr(kids[0])
			}
		default:
			prop.Computed = true
			prop.Value = c.unknown(child)
		}
		obj.Props = append(obj.Props, prop)
	}
	return obj
}

func (c *converter) jsx(n *sitter.Node) *ast.JSXElement {
	el := &ast.JSXElement{Span: c.span(n)}
	open := n
	if n.Kind() == "jsx_element" {
		for _, child := range namedChildren(n) {
			if child.Kind() == "jsx_opening_element" {
				open = child
				break
			}
		}
	}
	el.Name = c.text(open.ChildByFieldName("name"))
	for _, child := range namedChildren(open) {
		if child.Kind() != "jsx_attribute" {
			continue
		}
		kids := namedChildren(child)
		if len(kids) == 0 {
			continue
		}
		attr := &ast.JSXAttr{Span: c.span(child), Name: c.text(kids[0])}
		if len(kids) > 1 {
			value := kids[1]
			switch value.Kind() {
			case "jsx_expression":
				if inner := namedChildren(value); len(inner) > 0 {
					attr.Value = c.expr(inner[0])
				}
			case "string":
				attr.Value = &ast.StringLit{Span: c.span(value), Value: c.stringValue(value)}
			default:
				attr.Value = c.expr(value)
			}
		}
		el.Attrs = append(el.Attrs, attr)
	}
	if n.Kind() == "jsx_element" {
		for _, child := range namedChildren(n) {
			switch child.Kind() {
			case "jsx_opening_element", "jsx_closing_element", "jsx_text":
				continue
			case "jsx_expression":
				if inner := namedChildren(child); len(inner) > 0 {
					el.Children = append(el.Children, c.expr(inner[0]))
				}
			default:
				el.Children = append(el.Children, c.expr(child))
			}
		}
	}
	return el
}

// ---- types ----

// typeAnnotation unwraps a `: T` annotation node.
func (c *converter) typeAnnotation(n *sitter.Node) ast.TypeNode {
	if n.Kind() == "type_annotation" {
		if kids := namedChildren(n); len(kids) > 0 {
			return c.typeNode(kids[0])
		}
	}
	return c.typeNode(n)
}

func (c *converter) typeNode(n *sitter.Node) ast.TypeNode {
	sp := c.span(n)
	switch n.Kind() {
	case "type_annotation":
		return c.typeAnnotation(n)
	case "predefined_type", "type_identifier", "nested_type_identifier", "generic_type":
		return &ast.TypeRef{Span: sp, Name: c.text(n)}
	case "literal_type":
		kids := namedChildren(n)
		if len(kids) == 1 && kids[0].Kind() == "string" {
			return &ast.LiteralType{Span: sp, Value: c.stringValue(kids[0]), IsString: true}
		}
		return &ast.LiteralType{Span: sp, Value: c.text(n)}
	case "union_type":
		u := &ast.UnionType{Span: sp}
		for _, child := range namedChildren(n) {
			switch t := c.typeNode(child).(type) {
			case *ast.UnionType:
				u.Types = append(u.Types, t.Types...)
			default:
				u.Types = append(u.Types, t)
			}
		}
		return u
	case "parenthesized_type":
		if kids := namedChildren(n); len(kids) > 0 {
			return c.typeNode(kids[0])
		}
	case "object_type":
		obj := &ast.ObjectType{Span: sp}
		for _, child := range namedChildren(n) {
			if child.Kind() != "property_signature" {
				continue
			}
			sig := &ast.PropSig{
				Span:     c.span(child),
				Name:     c.propertyKey(child.ChildByFieldName("name")),
				Optional: hasToken(child, "?"),
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				sig.Type = c.typeAnnotation(typ)
			}
			obj.Members = append(obj.Members, sig)
		}
		return obj
	}
	return &ast.OtherType{Span: sp, Kind: n.Kind()}
}

// ---- literals ----

// stringValue decodes a string node, handling the common escapes.
func (c *converter) stringValue(n *sitter.Node) string {
	raw := c.text(n)
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	return unescape(raw)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func parseNumber(raw string) float64 {
	clean := strings.ReplaceAll(raw, "_", "")
	lower := strings.ToLower(clean)
	switch {
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		if v, err := strconv.ParseInt(lower, 0, 64); err == nil {
			return float64(v)
		}
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}
