package stylesheet

import (
	"fmt"
	"strings"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/cssscan"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/resolver"
)

func (b *builder) warn(kind diag.WarningKind, file string, pos diag.Pos, format string, args ...any) {
	w := diag.Warning{Kind: kind, File: file, Pos: pos, Msg: fmt.Sprintf(format, args...)}
	b.warnings = append(b.warnings, w)
	if b.opts.OnWarning != nil {
		b.opts.OnWarning(w)
	}
}

// checkModifiers warns about declared style flags without a `&.` rule and
// about `&.` classes of flagged components that nothing declares or applies.
func (b *builder) checkModifiers(u *unit) {
	applied := b.cxClasses(u)
	for _, d := range u.decls {
		if d.flags == nil {
			continue
		}
		for _, m := range d.flags.CheckMissing(d.raw) {
			b.warn(diag.MissingModifierStyle, u.mod.Path, m.Flag.Pos,
				"%s: style flag %q has no matching `&.%s` rule", d.label, m.Flag.Prop, m.Selector)
		}
		for _, cls := range d.flags.Undeclared(d.raw) {
			if applied[d][cls] {
				continue
			}
			b.warn(diag.UndeclaredClass, u.mod.Path, diag.PosOf(d.node),
				"%s: `&.%s` matches no declared style flag", d.label, cls)
		}
	}
}

// cxUse is one class name passed through cx to a styled component.
type cxUse struct {
	decl  *declaration
	class string
	at    ast.Node
}

// cxUses finds classes applied to styled components of u through the `cx`
// prop or `className={cx({...})}`. Names starting with `$` are passed
// through untouched at runtime and are skipped.
func (b *builder) cxUses(u *unit) []cxUse {
	var uses []cxUse
	ast.InspectFile(u.mod.File, func(n ast.Node) bool {
		el, ok := n.(*ast.JSXElement)
		if !ok {
			return true
		}
		decl, ok := u.mod.Decls[el.Name]
		if !ok || decl.Kind != resolver.KindStyled {
			return true
		}
		d, ok := u.declFor(decl)
		if !ok {
			return true
		}
		for _, attr := range el.Attrs {
			var objs []ast.Expr
			switch attr.Name {
			case "cx":
				objs = append(objs, attr.Value)
			case "className":
				if call, ok := ast.Unparen(attr.Value).(*ast.Call); ok && u.mod.CallMarker(call) == resolver.MarkerCx {
					objs = append(objs, call.Args...)
				}
			}
			for _, o := range objs {
				obj, ok := ast.Unparen(o).(*ast.Object)
				if !ok {
					continue
				}
				for _, p := range obj.Props {
					if p.Spread || p.Computed || p.Key == "" || strings.HasPrefix(p.Key, "$") {
						continue
					}
					uses = append(uses, cxUse{decl: d, class: p.Key, at: p})
				}
			}
		}
		return true
	})
	return uses
}

func (b *builder) cxClasses(u *unit) map[*declaration]map[string]bool {
	out := make(map[*declaration]map[string]bool)
	for _, use := range b.cxUses(u) {
		if out[use.decl] == nil {
			out[use.decl] = make(map[string]bool)
		}
		out[use.decl][use.class] = true
	}
	return out
}

// checkCx warns when a class applied through cx has no `&.` rule in the
// component's CSS.
func (b *builder) checkCx(u *unit) {
	for _, use := range b.cxUses(u) {
		d := use.decl
		if d.flags != nil {
			if _, ok := d.flags.Lookup(use.class); ok {
				continue
			}
		}
		if cssscan.AmpClasses(d.raw)[use.class] {
			continue
		}
		b.warn(diag.MissingCxClass, u.mod.Path, diag.PosOf(use.at),
			"%s: class %q is applied with cx but the component has no `&.%s` rule", d.label, use.class, use.class)
	}
}
