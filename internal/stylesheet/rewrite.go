package stylesheet

import (
	"strconv"
	"strings"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/resolver"
)

// edits returns the source edits of u: every declaration replaced by its
// generated identifier, plus the runtime helper import when styled
// components are present.
func (b *builder) edits(u *unit) ([]Edit, error) {
	var edits []Edit
	styled := false
	for _, d := range u.decls {
		e, err := b.editFor(u, d)
		if err != nil {
			return nil, err
		}
		styled = styled || d.kind == StyledComponent
		edits = append(edits, e)
	}
	edits = outermost(edits)
	if styled {
		imp := Edit{Text: "import { " + RuntimeHelper + " } from " + quoteJS(b.r.Library()) + ";\n"}
		edits = append([]Edit{imp}, edits...)
	}
	return edits, nil
}

func (b *builder) editFor(u *unit, d *declaration) (Edit, error) {
	span := d.node.Loc()
	e := Edit{Start: span.Start.Offset, End: span.End.Offset}
	switch d.kind {
	case PlainStyle, Keyframes, StableID:
		e.Text = quoteJS(d.id)
	case GlobalStyle:
		if stmt, ok := u.rootStmt[d.node]; ok {
			e.Start, e.End = stmt.Span.Start.Offset, stmt.Span.End.Offset
			return e, nil
		}
		e.Text = "undefined"
	case DynamicColor:
		call := d.node.(*ast.Call)
		e.Text = u.mod.File.Text(call.Callee) + "(" + quoteJS(d.id) + ", " + strconv.FormatBool(b.opts.Dev) + ")"
	case StyledComponent:
		text, err := b.styledCall(u, d)
		if err != nil {
			return e, err
		}
		e.Text = text
	}
	return e, nil
}

// styledCall renders `_vSC(element, 'classes', attrs[, flags])`.
func (b *builder) styledCall(u *unit, d *declaration) (string, error) {
	st := d.styled
	element := quoteJS(st.element)
	classes := d.id
	if st.base != nil {
		element = u.mod.File.Text(st.base)
		if id, ok := ast.Unparen(st.base).(*ast.Ident); ok {
			bnd, err := b.r.Resolve(id.Name, u.mod, id)
			if err != nil {
				return "", err
			}
			if bnd.Kind == resolver.KindStyled {
				_, base, err := b.declOf(bnd, site{u: u, d: d, expr: id})
				if err != nil {
					return "", err
				}
				classes = base.id + " " + d.id
				if base.styled != nil && base.styled.element != "" {
					element = quoteJS(base.styled.element)
				}
			}
		}
	}

	attrs := "undefined"
	if st.attrs != nil {
		text, err := b.rewriteRange(u, d, st.attrs)
		if err != nil {
			return "", err
		}
		attrs = text
	}

	args := []string{element, quoteJS(classes), attrs}
	if d.flags != nil && len(d.flags.Flags) > 0 {
		args = append(args, d.flags.Table())
	}
	return RuntimeHelper + "(" + strings.Join(args, ", ") + ")", nil
}

// rewriteRange returns the source text of n with the edits of the
// declarations nested in it applied.
func (b *builder) rewriteRange(u *unit, owner *declaration, n ast.Node) (string, error) {
	span := n.Loc()
	var inner []Edit
	for _, d := range u.decls {
		if d == owner {
			continue
		}
		s := d.node.Loc()
		if s.Start.Offset < span.Start.Offset || s.End.Offset > span.End.Offset {
			continue
		}
		e, err := b.editFor(u, d)
		if err != nil {
			return "", err
		}
		e.Start -= span.Start.Offset
		e.End -= span.Start.Offset
		inner = append(inner, e)
	}
	src := u.mod.File.Source[span.Start.Offset:span.End.Offset]
	return ApplyEdits(src, outermost(inner)), nil
}

func quoteJS(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`).Replace(s) + "'"
}
