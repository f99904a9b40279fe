package stylesheet

import (
	"errors"
	"fmt"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/color"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/evaluator"
	"github.com/lucasols/vindur-sub001/internal/resolver"
)

// predicates maps color selector predicates to their class index.
var predicates = map[string]int{
	"isDark":            0,
	"isLight":           1,
	"isDefined":         2,
	"isNotDefined":      3,
	"isVeryDark":        4,
	"isVeryLight":       5,
	"isSemiTransparent": 6,
}

// colorAccess is a parsed color accessor chain.
type colorAccess struct {
	contrast bool
	// op is "", "alpha", "lighter", "darker" or "saturatedDarker"
	op     string
	amount float64
}

// suffix is the custom-property suffix of the variant, "" for the base color.
func (a colorAccess) suffix() string {
	var s string
	switch a.op {
	case "alpha":
		s = "a" + percent(a.amount)
	case "lighter":
		s = "l" + percent(a.amount)
	case "darker":
		s = "d" + percent(a.amount)
	case "saturatedDarker":
		s = "sd" + percent(a.amount)
	}
	if a.contrast {
		if s == "" {
			return "c"
		}
		return "c-" + s
	}
	return s
}

// parseAccess reads `.var`, `.contrast.var`, `.alpha(n)`, `.lighter(n)`,
// `.darker(n)`, `.saturatedDarker(n)` and `.contrast.alpha(n)`.
func (b *builder) parseAccess(segs []segment, at site) (colorAccess, error) {
	var a colorAccess
	if len(segs) > 0 && segs[0].name == "contrast" && !segs[0].called {
		a.contrast = true
		segs = segs[1:]
	}
	if len(segs) != 1 {
		return a, b.invalid(at, "unsupported color accessor")
	}
	seg := segs[0]
	switch seg.name {
	case "var":
		if seg.called {
			return a, b.invalid(at, "color .var is not callable")
		}
		return a, nil
	case "alpha":
	case "lighter", "darker", "saturatedDarker":
		if a.contrast {
			return a, b.invalid(at, "contrast colors only support .var and .alpha()")
		}
	default:
		return a, b.invalid(at, "unknown color accessor %q", seg.name)
	}
	if !seg.called || len(seg.args) != 1 {
		return a, b.invalid(at, "%s() takes exactly one amount", seg.name)
	}
	v, err := evaluator.Fold(seg.args[0], b.r.Scope(at.u.mod, b.trail), at.u.mod.Path)
	if err != nil && !errors.Is(err, evaluator.ErrNotConstant) {
		return a, err
	}
	if err != nil || v.Kind != evaluator.Number {
		return a, b.invalid(at, "%s() amount must be a constant number", seg.name)
	}
	if v.Num < 0 || v.Num > 1 {
		return a, diag.New(diag.InvalidColorValue, at.u.mod.Path, seg.args[0],
			"%s() amount must be between 0 and 1, got %s", seg.name, evaluator.FormatNumber(v.Num))
	}
	a.op = seg.name
	a.amount = v.Num
	return a, nil
}

// dynamicColor resolves accessors of a runtime color declared with id.
func (b *builder) dynamicColor(id string, segs []segment, at site) (interpolation, error) {
	if len(segs) == 2 && !segs[0].called && !segs[1].called {
		if n, ok := predicates[segs[1].name]; ok {
			switch segs[0].name {
			case "self":
				return selectorInterp{selector: fmt.Sprintf("&.%s-s%d", id, n)}, nil
			case "container":
				return selectorInterp{selector: fmt.Sprintf(".%s-c%d &", id, n)}, nil
			}
		}
	}
	a, err := b.parseAccess(segs, at)
	if err != nil {
		return nil, err
	}
	prop := "--" + id
	if s := a.suffix(); s != "" {
		prop += "-" + s
	}
	return colorInterp{value: "var(" + prop + ")"}, nil
}

// themeColor resolves `theme.<name>.<accessor>` against the literal palette
// passed to createStaticThemeColors.
func (b *builder) themeColor(bnd *resolver.Binding, segs []segment, at site) (interpolation, error) {
	name := segs[0].name
	if segs[0].called {
		return nil, b.invalid(at, "theme color %q is not callable", name)
	}
	hex, err := b.themeHex(bnd, name, at)
	if err != nil {
		return nil, err
	}
	a, err := b.parseAccess(segs[1:], at)
	if err != nil {
		return nil, err
	}

	value, err := applyAccess(hex, a)
	if err != nil {
		return nil, diag.Wrap(err, diag.InvalidColorValue, at.u.mod.Path, at.expr, "theme color %q: %v", name, err)
	}
	if b.opts.Production || !b.opts.Dev {
		return colorInterp{value: value}, nil
	}
	variant := a.suffix()
	if variant == "" {
		variant = "var"
	}
	prop := "--stc-" + sanitize(name) + "-" + variant
	b.useThemeVar(prop, value)
	return colorInterp{value: "var(" + prop + ", " + value + ")"}, nil
}

func applyAccess(hex string, a colorAccess) (string, error) {
	var err error
	if a.contrast {
		if hex, err = color.Contrast(hex); err != nil {
			return "", err
		}
	}
	switch a.op {
	case "alpha":
		return color.Alpha(hex, a.amount)
	case "lighter":
		return color.Lighter(hex, a.amount)
	case "darker":
		return color.Darker(hex, a.amount)
	case "saturatedDarker":
		return color.SaturatedDarker(hex, a.amount)
	}
	return color.MinifyHex(hex)
}

// themeHex finds and validates the palette entry name.
func (b *builder) themeHex(bnd *resolver.Binding, name string, at site) (string, error) {
	call, ok := ast.Unparen(bnd.Decl.Value).(*ast.Call)
	if !ok || len(call.Args) != 1 {
		return "", b.invalid(at, "%s is not a literal theme palette", bnd.Name)
	}
	obj, ok := ast.Unparen(call.Args[0]).(*ast.Object)
	if !ok {
		return "", diag.New(diag.InvalidColorValue, bnd.Module.Path, call,
			"createStaticThemeColors expects an object literal of hex colors")
	}
	for _, p := range obj.Props {
		if p.Spread || p.Computed || p.Key != name {
			continue
		}
		v, err := evaluator.Fold(p.Value, b.r.Scope(bnd.Module, b.trail), bnd.Module.Path)
		if err != nil && !errors.Is(err, evaluator.ErrNotConstant) {
			return "", err
		}
		if err != nil || v.Kind != evaluator.String {
			return "", diag.New(diag.InvalidColorValue, bnd.Module.Path, p,
				"theme color %q must be a hex string literal", name)
		}
		if err := color.ValidateThemeHex(v.Str); err != nil {
			return "", diag.Wrap(err, diag.InvalidColorValue, bnd.Module.Path, p,
				"theme color %q: %v", name, err)
		}
		return v.Str, nil
	}
	return "", b.invalid(at, "%s has no color %q", bnd.Name, name)
}

func (b *builder) useThemeVar(prop, value string) {
	if _, ok := b.themeVars[prop]; ok {
		return
	}
	b.themeVars[prop] = value
	b.themeOrder = append(b.themeOrder, prop)
}
