package stylesheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/evaluator"
	"github.com/lucasols/vindur-sub001/internal/resolver"
)

// interpolation is the resolved form of one `${...}` site. The set of
// implementations is closed; render switches over all of them.
type interpolation interface {
	interpolation()
}

// literalInterp is a folded constant.
type literalInterp struct {
	text string
}

// helperInterp is a call of a compiled style helper with folded arguments.
type helperInterp struct {
	spec *evaluator.CallableSpec
	args []evaluator.Value
}

// styleRefInterp is a reference to a css`` declaration, substituted by its
// body in statement position and by its selector elsewhere.
type styleRefInterp struct {
	unit *unit
	decl *declaration
}

// forwardRefInterp is a styled component reference, direct or through a
// zero-argument thunk.
type forwardRefInterp struct {
	unit *unit
	decl *declaration
}

// layerInterp opens an `@layer` block for the CSS that follows.
type layerInterp struct {
	name string
}

// colorInterp is a color value: a literal hex or a custom property.
type colorInterp struct {
	value string
}

// selectorInterp is a generated selector: a color predicate or a style flag
// accessor.
type selectorInterp struct {
	selector string
}

// keyframesInterp is a keyframes name.
type keyframesInterp struct {
	id string
}

func (literalInterp) interpolation()    {}
func (helperInterp) interpolation()     {}
func (styleRefInterp) interpolation()   {}
func (forwardRefInterp) interpolation() {}
func (layerInterp) interpolation()      {}
func (colorInterp) interpolation()      {}
func (selectorInterp) interpolation()   {}
func (keyframesInterp) interpolation()  {}

// site is the template position an interpolation is rendered at.
type site struct {
	u    *unit
	d    *declaration
	expr ast.Expr
	// statement is true when the expression stands alone as a declaration
	statement bool
}

// render returns the CSS text of in.
func (b *builder) render(in interpolation, at site) (string, error) {
	switch in := in.(type) {
	case literalInterp:
		return in.text, nil
	case helperInterp:
		out, err := evaluator.Evaluate(in.spec, in.args)
		if err != nil {
			if _, ok := diag.As(err); ok {
				return "", err
			}
			return "", diag.Wrap(err, diag.EvaluationError, at.u.mod.Path, at.expr, "%v", err)
		}
		return out, nil
	case styleRefInterp:
		if !at.statement {
			return "." + in.decl.id, nil
		}
		body, err := b.resolveBody(in.unit, in.decl, at.expr)
		if err != nil {
			return "", err
		}
		return body, nil
	case forwardRefInterp:
		return "." + in.decl.id, nil
	case layerInterp:
		return "@layer " + in.name, nil
	case colorInterp:
		return in.value, nil
	case selectorInterp:
		return in.selector, nil
	case keyframesInterp:
		return in.id, nil
	}
	panic(fmt.Sprintf("stylesheet: unhandled interpolation %T", in))
}

// classify resolves the expression of an interpolation site, trying in
// order: constant folding, helper calls and layers, bindings (styles,
// styled components, keyframes, stable ids), forward-reference thunks and
// member accessors (namespaces, style flags, colors).
func (b *builder) classify(at site) (interpolation, error) {
	u := at.u
	v, err := evaluator.Fold(at.expr, b.r.Scope(u.mod, b.trail), u.mod.Path)
	if err == nil {
		if v.Kind == evaluator.Object {
			return nil, b.invalid(at, "an object cannot be interpolated into CSS")
		}
		return literalInterp{text: v.Text()}, nil
	}
	if !errors.Is(err, evaluator.ErrNotConstant) {
		return nil, err
	}

	switch e := ast.Unparen(at.expr).(type) {
	case *ast.Ident:
		bnd, err := b.r.Resolve(e.Name, u.mod, e)
		if err != nil {
			return nil, err
		}
		return b.bindingInterp(bnd, at)
	case *ast.ArrowFunc:
		return b.thunk(e, at)
	case *ast.Call:
		if id, ok := ast.Unparen(e.Callee).(*ast.Ident); ok {
			bnd, err := b.r.Resolve(id.Name, u.mod, id)
			if err != nil {
				return nil, err
			}
			return b.call(bnd, e, at)
		}
		return b.member(at)
	case *ast.Member:
		return b.member(at)
	}
	return nil, b.invalid(at, "unsupported expression")
}

func (b *builder) invalid(at site, format string, args ...any) error {
	text := at.u.mod.File.Text(at.expr)
	return diag.New(diag.InvalidInterpolation, at.u.mod.Path, at.expr,
		"invalid interpolation ${%s}: %s", text, fmt.Sprintf(format, args...))
}

// bindingInterp resolves a bare reference to bnd.
func (b *builder) bindingInterp(bnd *resolver.Binding, at site) (interpolation, error) {
	switch bnd.Kind {
	case resolver.KindStyle:
		ru, d, err := b.declOf(bnd, at)
		if err != nil {
			return nil, err
		}
		return styleRefInterp{unit: ru, decl: d}, nil
	case resolver.KindStyled:
		ru, d, err := b.declOf(bnd, at)
		if err != nil {
			return nil, err
		}
		if ru == at.u && d.node.Loc().Start.Offset > at.expr.Loc().Start.Offset {
			return nil, b.invalid(at, "%s is declared later in the file; reference it through a thunk: ${() => %s}",
				bnd.Name, bnd.Name)
		}
		return forwardRefInterp{unit: ru, decl: d}, nil
	case resolver.KindKeyframes:
		_, d, err := b.declOf(bnd, at)
		if err != nil {
			return nil, err
		}
		return keyframesInterp{id: d.id}, nil
	case resolver.KindStableID:
		_, d, err := b.declOf(bnd, at)
		if err != nil {
			return nil, err
		}
		return literalInterp{text: d.id}, nil
	case resolver.KindExternal:
		return nil, diag.New(diag.UnresolvedReference, at.u.mod.Path, at.expr,
			"%q is imported from %q, which cannot be resolved at compile time", bnd.Name, bnd.Source)
	case resolver.KindHelper, resolver.KindFunction:
		return nil, b.invalid(at, "%s is a function; call it", bnd.Name)
	}
	return nil, b.invalid(at, "%s is a %s", bnd.Name, bnd.Kind)
}

// declOf returns the unit and declaration behind a style-producing binding.
func (b *builder) declOf(bnd *resolver.Binding, at site) (*unit, *declaration, error) {
	if bnd.Module == nil {
		return nil, nil, b.invalid(at, "%s has no declaration", bnd.Name)
	}
	ru := b.unitFor(bnd.Module)
	d, ok := ru.declFor(bnd.Decl)
	if !ok {
		return nil, nil, b.invalid(at, "%s is not a style declaration", bnd.Name)
	}
	return ru, d, nil
}

// thunk resolves `() => Component`.
func (b *builder) thunk(fn *ast.ArrowFunc, at site) (interpolation, error) {
	if len(fn.Params) > 0 || fn.Expr == nil {
		return nil, b.invalid(at, "only zero-argument arrow functions returning a styled component are allowed")
	}
	id, ok := ast.Unparen(fn.Expr).(*ast.Ident)
	if !ok {
		return nil, b.invalid(at, "a forward reference must return a styled component identifier")
	}
	bnd, err := b.r.Resolve(id.Name, at.u.mod, id)
	if err != nil {
		return nil, err
	}
	if bnd.Kind != resolver.KindStyled {
		return nil, b.invalid(at, "%s is a %s, not a styled component", id.Name, bnd.Kind)
	}
	ru, d, err := b.declOf(bnd, at)
	if err != nil {
		return nil, err
	}
	return forwardRefInterp{unit: ru, decl: d}, nil
}

// call resolves `fn(args)` where fn is bound to bnd.
func (b *builder) call(bnd *resolver.Binding, call *ast.Call, at site) (interpolation, error) {
	switch {
	case bnd.Kind == resolver.KindLibrary && bnd.Marker == resolver.MarkerLayer:
		return b.layer(call, at)
	case bnd.Kind == resolver.KindLibrary:
		return nil, b.invalid(at, "%s cannot be called inside a style template", bnd.Marker)
	case bnd.Spec != nil || bnd.Kind.IsHelperLike():
		return b.helper(bnd, call, at)
	case bnd.Kind == resolver.KindExternal:
		return nil, diag.New(diag.UnresolvedFunctionCall, at.u.mod.Path, call,
			"function %q is imported from %q and cannot be evaluated at compile time; "+
				"if it is a style helper in this project, configure an import alias for it", bnd.Name, bnd.Source)
	}
	return nil, diag.New(diag.UnresolvedFunctionCall, at.u.mod.Path, call,
		"%q is a %s, not a style helper function", bnd.Name, bnd.Kind)
}

func (b *builder) helper(bnd *resolver.Binding, call *ast.Call, at site) (interpolation, error) {
	spec, err := b.r.Helper(bnd, call)
	if err != nil {
		return nil, err
	}
	args := make([]evaluator.Value, len(call.Args))
	scope := b.r.Scope(at.u.mod, b.trail)
	for i, arg := range call.Args {
		v, err := evaluator.Fold(arg, scope, at.u.mod.Path)
		if err != nil {
			if errors.Is(err, evaluator.ErrNotConstant) {
				return nil, b.invalid(at, "argument %d of %s is not a compile-time constant", i+1, bnd.Name)
			}
			return nil, err
		}
		args[i] = v
	}
	return helperInterp{spec: spec, args: args}, nil
}

func (b *builder) layer(call *ast.Call, at site) (interpolation, error) {
	if len(call.Args) != 1 {
		return nil, b.invalid(at, "layer() takes exactly one name")
	}
	v, err := evaluator.Fold(call.Args[0], b.r.Scope(at.u.mod, b.trail), at.u.mod.Path)
	if err != nil || v.Kind != evaluator.String || strings.TrimSpace(v.Str) == "" {
		return nil, b.invalid(at, "layer() name must be a constant string")
	}
	return layerInterp{name: v.Str}, nil
}

// segment is one step of a member chain: `.name` or `.name(args)`.
type segment struct {
	name   string
	called bool
	args   []ast.Expr
	node   ast.Expr
}

// flatten splits a member/call chain into its root identifier and the
// segments that follow it.
func flatten(e ast.Expr) (*ast.Ident, []segment, bool) {
	var segs []segment
	for {
		switch x := ast.Unparen(e).(type) {
		case *ast.Ident:
			for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
				segs[i], segs[j] = segs[j], segs[i]
			}
			return x, segs, true
		case *ast.Member:
			segs = append(segs, segment{name: x.Property, node: x})
			e = x.Object
		case *ast.Call:
			m, ok := ast.Unparen(x.Callee).(*ast.Member)
			if !ok {
				return nil, nil, false
			}
			segs = append(segs, segment{name: m.Property, called: true, args: x.Args, node: x})
			e = m.Object
		default:
			return nil, nil, false
		}
	}
}

// member resolves accessor chains rooted at an identifier.
func (b *builder) member(at site) (interpolation, error) {
	root, segs, ok := flatten(at.expr)
	if !ok {
		return nil, b.invalid(at, "unsupported expression")
	}
	bnd, err := b.r.Resolve(root.Name, at.u.mod, root)
	if err != nil {
		return nil, err
	}
	for bnd.Kind == resolver.KindNamespace && len(segs) > 0 {
		seg := segs[0]
		next, err := b.r.Member(bnd, seg.name, seg.node)
		if err != nil {
			return nil, err
		}
		next.Name = root.Name + "." + seg.name
		segs = segs[1:]
		if seg.called {
			if len(segs) > 0 {
				return nil, b.invalid(at, "unsupported accessor after %s()", next.Name)
			}
			return b.call(next, seg.node.(*ast.Call), at)
		}
		bnd = next
	}
	if len(segs) == 0 {
		return b.bindingInterp(bnd, at)
	}

	switch bnd.Kind {
	case resolver.KindStyled:
		return b.flagAccessor(bnd, segs, at)
	case resolver.KindDynamicColor:
		_, d, err := b.declOf(bnd, at)
		if err != nil {
			return nil, err
		}
		return b.dynamicColor(d.id, segs, at)
	case resolver.KindThemeColors:
		return b.themeColor(bnd, segs, at)
	case resolver.KindExternal:
		if segs[len(segs)-1].called {
			return nil, diag.New(diag.UnresolvedFunctionCall, at.u.mod.Path, at.expr,
				"%q is imported from %q and cannot be evaluated at compile time; "+
					"configure an import alias if it is part of this project", root.Name, bnd.Source)
		}
		return nil, diag.New(diag.UnresolvedReference, at.u.mod.Path, at.expr,
			"%q is imported from %q, which cannot be resolved at compile time", root.Name, bnd.Source)
	}
	return nil, b.invalid(at, "member access on a %s is not supported", bnd.Kind)
}

// flagAccessor resolves `Comp.styleFlags.<flag>[.<variant>]` to the selector
// of the component with that modifier applied.
func (b *builder) flagAccessor(bnd *resolver.Binding, segs []segment, at site) (interpolation, error) {
	if segs[0].name != "styleFlags" || len(segs) < 2 || len(segs) > 3 {
		return nil, b.invalid(at, "styled components only expose .styleFlags.<flag>")
	}
	for _, s := range segs {
		if s.called {
			return nil, b.invalid(at, "style flags are not callable")
		}
	}
	ru, d, err := b.declOf(bnd, at)
	if err != nil {
		return nil, err
	}
	spec, err := b.flagsOf(ru, d)
	if err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, b.invalid(at, "%s declares no style flags", bnd.Name)
	}
	flag, ok := spec.Lookup(segs[1].name)
	if !ok {
		return nil, b.invalid(at, "%s has no style flag %q", bnd.Name, segs[1].name)
	}
	cls := flag.Class
	if len(segs) == 3 {
		variant := segs[2].name
		found := false
		for _, v := range flag.Variants {
			found = found || v == variant
		}
		if !found {
			return nil, b.invalid(at, "style flag %q has no variant %q", flag.Prop, variant)
		}
		cls = flag.VariantClass(variant)
	}
	return selectorInterp{selector: "." + d.id + "." + cls}, nil
}
