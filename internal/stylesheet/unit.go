package stylesheet

import (
	"fmt"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/resolver"
	"github.com/lucasols/vindur-sub001/internal/styleflags"
)

// DeclKind is the kind of a style-producing construct.
type DeclKind int

const (
	PlainStyle DeclKind = iota
	StyledComponent
	Keyframes
	GlobalStyle
	DynamicColor
	StableID
)

func (k DeclKind) String() string {
	switch k {
	case StyledComponent:
		return "styled"
	case Keyframes:
		return "keyframes"
	case GlobalStyle:
		return "global"
	case DynamicColor:
		return "color"
	case StableID:
		return "id"
	}
	return "css"
}

type resolveState int

const (
	unresolved resolveState = iota
	resolved
)

// declaration is one style-producing construct of a unit.
type declaration struct {
	kind  DeclKind
	index int
	id    string
	// name is the declared variable name, or "" for unnamed usages
	name  string
	label string
	node  ast.Expr
	// template is nil for dynamic colors and stable ids
	template *ast.TemplateLit
	// root is true for module-root `const name = ...` declarations
	root bool

	styled    *styledTag
	flags     *styleflags.Spec
	flagsDone bool

	state resolveState
	// raw is the interpolated CSS before flag selectors are rewritten
	raw  string
	body string
}

// styledTag is the parsed tag of a styled component.
type styledTag struct {
	element string
	base    ast.Expr
	attrs   ast.Expr
}

// unit is one module with its declarations indexed. Units are built for the
// entry file and for every file whose styles are referenced.
type unit struct {
	mod   *resolver.Module
	hash  string
	decls []*declaration
	// byNode maps the declaring node (tagged template or call) to its decl
	byNode map[ast.Expr]*declaration
	// rootStmt maps a declaring node to the top-level expression statement
	// that consists of it
	rootStmt map[ast.Expr]*ast.ExprStmt
}

func (b *builder) unitFor(m *resolver.Module) *unit {
	if u, ok := b.units[m.Path]; ok {
		return u
	}
	u := newUnit(m, FileHash(m.Path, b.opts.RootDir), b.opts.named())
	b.units[m.Path] = u
	return u
}

func newUnit(m *resolver.Module, hash string, dev bool) *unit {
	u := &unit{
		mod:      m,
		hash:     hash,
		byNode:   make(map[ast.Expr]*declaration),
		rootStmt: make(map[ast.Expr]*ast.ExprStmt),
	}

	names := make(map[ast.Expr]string)
	roots := make(map[ast.Expr]bool)
	for _, stmt := range m.File.Body {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				if d.Name != "" && d.Value != nil && s.Kind == "const" {
					roots[ast.Unparen(d.Value)] = true
				}
			}
		case *ast.ExprStmt:
			u.rootStmt[ast.Unparen(s.X)] = s
		case *ast.ExportDefault:
			names[ast.Unparen(s.Value)] = "default"
		}
	}

	ast.InspectFile(m.File, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Declarator:
			if n.Name != "" && n.Value != nil {
				names[ast.Unparen(n.Value)] = n.Name
			}
		case *ast.TaggedTemplate:
			kind, ok := templateKind(m.Marker(n.Tag))
			if !ok {
				return true
			}
			d := u.add(kind, n, names[n], n.Quasi, dev)
			d.root = roots[n]
			if kind == StyledComponent {
				d.styled = parseStyledTag(n.Tag)
			}
		case *ast.Call:
			var kind DeclKind
			switch m.CallMarker(n) {
			case resolver.MarkerDynamicColor:
				kind = DynamicColor
			case resolver.MarkerStableID:
				kind = StableID
			default:
				return true
			}
			d := u.add(kind, n, names[n], nil, dev)
			d.root = roots[n]
		}
		return true
	})
	return u
}

func templateKind(marker string) (DeclKind, bool) {
	switch marker {
	case resolver.MarkerCSS:
		return PlainStyle, true
	case resolver.MarkerStyled:
		return StyledComponent, true
	case resolver.MarkerKeyframes:
		return Keyframes, true
	case resolver.MarkerGlobalStyle:
		return GlobalStyle, true
	}
	return 0, false
}

func (u *unit) add(kind DeclKind, node ast.Expr, name string, tpl *ast.TemplateLit, dev bool) *declaration {
	d := &declaration{
		kind:     kind,
		index:    len(u.decls) + 1,
		name:     name,
		node:     node,
		template: tpl,
	}
	d.label = name
	if d.label == "" {
		d.label = fmt.Sprintf("%sL%d", kind, node.Loc().Start.Line)
	}
	d.id = DeclID(u.hash, d.index, d.label, dev)
	u.decls = append(u.decls, d)
	u.byNode[node] = d
	return d
}

// declFor returns the declaration produced by a module-root binding.
func (u *unit) declFor(decl *resolver.Decl) (*declaration, bool) {
	if decl == nil || decl.Value == nil {
		return nil, false
	}
	d, ok := u.byNode[ast.Unparen(decl.Value)]
	return d, ok
}

// trailKey identifies d on the resolution trail.
func (u *unit) trailKey(d *declaration) string {
	if d.name != "" {
		return resolver.Key(u.mod.Path, d.name)
	}
	return resolver.Key(u.mod.Path, fmt.Sprintf("%s@%d", d.label, d.index))
}

// parseStyledTag reads styled.tag, styled(Base) and a trailing .attrs({...}).
func parseStyledTag(tag ast.Expr) *styledTag {
	st := &styledTag{}
	e := ast.Unparen(tag)
	if call, ok := e.(*ast.Call); ok {
		if m, ok := ast.Unparen(call.Callee).(*ast.Member); ok && m.Property == "attrs" {
			if len(call.Args) > 0 {
				st.attrs = call.Args[0]
			}
			e = ast.Unparen(m.Object)
		}
	}
	switch x := e.(type) {
	case *ast.Member:
		st.element = x.Property
	case *ast.Call:
		if len(x.Args) > 0 {
			if s, ok := ast.Unparen(x.Args[0]).(*ast.StringLit); ok {
				st.element = s.Value
			} else {
				st.base = x.Args[0]
			}
		}
	}
	return st
}
