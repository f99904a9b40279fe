package ast

// Inspect traverses the tree rooted at n in source order. fn is called for
// every node before its children; returning false skips the children.
func Inspect(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// InspectFile runs Inspect over every top-level statement of f.
func InspectFile(f *File, fn func(Node) bool) {
	for _, s := range f.Body {
		Inspect(s, fn)
	}
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(cs ...Node) {
		for _, c := range cs {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *VarDecl:
		for _, d := range n.Decls {
			add(d)
		}
	case *Declarator:
		add(n.Type, n.Value)
	case *FuncDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *ExportDefault:
		add(n.Value)
	case *ExprStmt:
		add(n.X)
	case *Return:
		add(n.Value)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *TemplateLit:
		for _, e := range n.Exprs {
			add(e)
		}
	case *TaggedTemplate:
		add(n.Tag)
		for _, t := range n.TypeArgs {
			add(t)
		}
		add(n.Quasi)
	case *Call:
		add(n.Callee)
		for _, t := range n.TypeArgs {
			add(t)
		}
		for _, a := range n.Args {
			add(a)
		}
	case *Member:
		add(n.Object)
	case *Index:
		add(n.Object, n.Key)
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.X)
	case *Conditional:
		add(n.Test, n.Cons, n.Alt)
	case *ObjectPattern:
		for _, p := range n.Props {
			add(p)
		}
	case *PatternProp:
		add(n.Default)
	case *Param:
		if n.Pattern != nil {
			add(n.Pattern)
		}
		add(n.Default, n.Type)
	case *ArrowFunc:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Expr)
		if n.Block != nil {
			add(n.Block)
		}
	case *FuncExpr:
		for _, p := range n.Params {
			add(p)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *Object:
		for _, p := range n.Props {
			add(p)
		}
	case *Property:
		add(n.Value)
	case *Array:
		for _, e := range n.Elems {
			add(e)
		}
	case *JSXElement:
		for _, a := range n.Attrs {
			add(a)
		}
		add(n.Children...)
	case *JSXAttr:
		add(n.Value)
	case *Unknown:
		add(n.Children...)
	case *UnionType:
		for _, t := range n.Types {
			add(t)
		}
	case *ObjectType:
		for _, m := range n.Members {
			add(m)
		}
	case *PropSig:
		add(n.Type)
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *TemplateLit:
		return v == nil
	case *ObjectPattern:
		return v == nil
	case *Declarator:
		return v == nil
	case *Param:
		return v == nil
	case *Property:
		return v == nil
	case *JSXAttr:
		return v == nil
	case *PatternProp:
		return v == nil
	case *PropSig:
		return v == nil
	}
	return false
}

// Unparen strips TypeScript-only wrappers that do not change a value
// (`x as const`, `x!`, `x satisfies T`) and returns the inner expression.
func Unparen(e Expr) Expr {
	for {
		u, ok := e.(*Unknown)
		if !ok {
			return e
		}
		switch u.Kind {
		case "as_expression", "satisfies_expression", "non_null_expression":
			if len(u.Children) == 0 {
				return e
			}
			inner, ok := u.Children[0].(Expr)
			if !ok {
				return e
			}
			e = inner
		default:
			return e
		}
	}
}
