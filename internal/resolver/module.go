package resolver

import (
	"github.com/lucasols/vindur-sub001/internal/ast"
)

// Library exports recognised as compiler markers.
const (
	MarkerCSS          = "css"
	MarkerStyled       = "styled"
	MarkerKeyframes    = "keyframes"
	MarkerGlobalStyle  = "createGlobalStyle"
	MarkerFn           = "vindurFn"
	MarkerDynamicColor = "createDynamicCssColor"
	MarkerThemeColors  = "createStaticThemeColors"
	MarkerStableID     = "stableId"
	MarkerLayer        = "layer"
	MarkerCx           = "cx"
)

// Kind classifies what a name is bound to.
type Kind int

const (
	KindUnknown Kind = iota
	KindConstant
	KindVariable
	KindHelper
	KindFunction
	KindStyle
	KindStyled
	KindKeyframes
	KindGlobalStyle
	KindDynamicColor
	KindThemeColors
	KindStableID
	KindLibrary
	KindExternal
	KindNamespace
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindConstant:     "local-constant",
	KindVariable:     "variable",
	KindHelper:       "style-helper-function",
	KindFunction:     "function",
	KindStyle:        "style",
	KindStyled:       "styled-component",
	KindKeyframes:    "keyframes",
	KindGlobalStyle:  "global-style",
	KindDynamicColor: "dynamic-color",
	KindThemeColors:  "static-theme-colors",
	KindStableID:     "stable-id",
	KindLibrary:      "library",
	KindExternal:     "imported",
	KindNamespace:    "namespace",
}

func (k Kind) String() string { return kindNames[k] }

// IsHelperLike reports whether bindings of kind k may be compiled as style
// helpers when called from a template.
func (k Kind) IsHelperLike() bool { return k == KindHelper || k == KindFunction }

// Import is one imported local name.
type Import struct {
	Source   string
	Imported string
	Spec     ast.ImportSpec
}

// ReExport is `export { name } from 'source'`.
type ReExport struct {
	Source   string
	Imported string
	Span     ast.Span
}

// Decl is a module-root declaration.
type Decl struct {
	Name     string
	Kind     Kind
	Exported bool
	// Node is the *ast.Declarator or *ast.FuncDecl that declares the name.
	Node  ast.Node
	Value ast.Expr
	// Stmt is the enclosing top-level statement.
	Stmt ast.Stmt
}

// Fn returns the function node of a helper or function declaration.
func (d *Decl) Fn() ast.Node {
	if fd, ok := d.Node.(*ast.FuncDecl); ok {
		return fd
	}
	v := ast.Unparen(d.Value)
	if call, ok := v.(*ast.Call); ok && len(call.Args) > 0 {
		return ast.Unparen(call.Args[0])
	}
	return v
}

// Module is a parsed file with its top-level names indexed.
type Module struct {
	Path string
	File *ast.File

	Imports   map[string]Import
	Decls     map[string]*Decl
	Order     []*Decl
	Exports   map[string]string
	ReExports map[string]ReExport
	// Library maps local names to the library export they import.
	Library map[string]string
}

// NewModule indexes file. library is the module specifier of the style
// library whose exports are markers.
func NewModule(file *ast.File, library string) *Module {
	m := &Module{
		Path:      file.Path,
		File:      file,
		Imports:   make(map[string]Import),
		Decls:     make(map[string]*Decl),
		Exports:   make(map[string]string),
		ReExports: make(map[string]ReExport),
		Library:   make(map[string]string),
	}

	// imports first so that declarations can be classified by marker
	for _, stmt := range file.Body {
		imp, ok := stmt.(*ast.ImportDecl)
		if !ok || imp.TypeOnly {
			continue
		}
		for _, spec := range imp.Specs {
			if imp.Source == library && spec.Imported != "*" && spec.Imported != "default" {
				m.Library[spec.Local] = spec.Imported
				continue
			}
			m.Imports[spec.Local] = Import{Source: imp.Source, Imported: spec.Imported, Spec: spec}
		}
	}

	for _, stmt := range file.Body {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			for _, d := range s.Decls {
				if d.Name == "" {
					continue
				}
				decl := &Decl{Name: d.Name, Exported: s.Exported, Node: d, Value: d.Value, Stmt: s}
				decl.Kind = m.classify(d.Value, s.Kind == "const")
				m.addDecl(decl)
			}
		case *ast.FuncDecl:
			if s.Name == "" {
				continue
			}
			m.addDecl(&Decl{Name: s.Name, Kind: KindFunction, Exported: s.Exported, Node: s, Stmt: s})
		case *ast.ExportNamed:
			for _, spec := range s.Specs {
				if s.Source != "" {
					m.ReExports[spec.Exported] = ReExport{Source: s.Source, Imported: spec.Local, Span: spec.Span}
					continue
				}
				m.Exports[spec.Exported] = spec.Local
			}
		case *ast.ExportDefault:
			if id, ok := ast.Unparen(s.Value).(*ast.Ident); ok {
				m.Exports["default"] = id.Name
				continue
			}
			decl := &Decl{Name: "default", Exported: true, Node: s, Value: s.Value, Stmt: s}
			decl.Kind = m.classify(s.Value, true)
			m.addDecl(decl)
		}
	}
	return m
}

func (m *Module) addDecl(d *Decl) {
	m.Decls[d.Name] = d
	m.Order = append(m.Order, d)
	if d.Exported {
		m.Exports[d.Name] = d.Name
	}
}

// Marker returns the library export that e's root identifier refers to, or
// "". The root is found by descending through member accesses and callees, so
// `styled.div.attrs({})` and `styled(Base)` both have root marker "styled".
func (m *Module) Marker(e ast.Expr) string {
	for {
		switch x := ast.Unparen(e).(type) {
		case *ast.Ident:
			return m.Library[x.Name]
		case *ast.Member:
			e = x.Object
		case *ast.Call:
			e = x.Callee
		default:
			return ""
		}
	}
}

// CallMarker returns the marker called directly by call, e.g. "vindurFn" for
// `vindurFn(...)`, or "".
func (m *Module) CallMarker(call *ast.Call) string {
	if id, ok := ast.Unparen(call.Callee).(*ast.Ident); ok {
		return m.Library[id.Name]
	}
	return ""
}

func (m *Module) classify(value ast.Expr, isConst bool) Kind {
	switch v := ast.Unparen(value).(type) {
	case *ast.TaggedTemplate:
		switch m.Marker(v.Tag) {
		case MarkerCSS:
			return KindStyle
		case MarkerStyled:
			return KindStyled
		case MarkerKeyframes:
			return KindKeyframes
		case MarkerGlobalStyle:
			return KindGlobalStyle
		}
	case *ast.Call:
		switch m.CallMarker(v) {
		case MarkerFn:
			return KindHelper
		case MarkerDynamicColor:
			return KindDynamicColor
		case MarkerThemeColors:
			return KindThemeColors
		case MarkerStableID:
			return KindStableID
		}
	case *ast.ArrowFunc, *ast.FuncExpr:
		return KindFunction
	case nil:
		return KindVariable
	}
	if !isConst {
		return KindVariable
	}
	return KindConstant
}
