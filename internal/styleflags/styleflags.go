// Package styleflags extracts modifier props (boolean or string-union typed)
// from a styled component's props type and maps them to generated classes.
package styleflags

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/cssscan"
	"github.com/lucasols/vindur-sub001/internal/diag"
)

// Kind is the type of a style flag.
type Kind int

const (
	Boolean Kind = iota
	StringUnion
)

func (k Kind) String() string {
	if k == StringUnion {
		return "string-union"
	}
	return "boolean"
}

// Flag is one modifier prop.
type Flag struct {
	Prop     string
	Kind     Kind
	Variants []string
	Class    string
	Pos      diag.Pos
}

// VariantClass returns the class applied when the prop equals variant.
func (f Flag) VariantClass(variant string) string {
	return f.Class + "-" + variant
}

// Selectors returns the `&.` selector names expected in the component's CSS,
// in authoring form (before class rewriting).
func (f Flag) Selectors() []string {
	if f.Kind == Boolean {
		return []string{f.Prop}
	}
	out := make([]string, len(f.Variants))
	for i, v := range f.Variants {
		out[i] = f.Prop + "-" + v
	}
	return out
}

// Spec is the flag table of one styled component.
type Spec struct {
	Flags []Flag
}

// Extract reads the props type of a styled component. Every property must be
// boolean or a union of string literals; anything else is an
// InvalidStyleFlagType error naming the property and its type.
func Extract(t ast.TypeNode, file string, src []byte) (*Spec, error) {
	obj, ok := t.(*ast.ObjectType)
	if !ok {
		return nil, diag.New(diag.InvalidStyleFlagType, file, t,
			"style flags must be declared as an object type, got %s", typeText(t, src))
	}
	spec := &Spec{}
	for _, m := range obj.Members {
		flag := Flag{Prop: m.Name, Pos: diag.PosOf(m)}
		switch typ := m.Type.(type) {
		case *ast.TypeRef:
			if typ.Name != "boolean" {
				return nil, invalid(file, m, src)
			}
			flag.Kind = Boolean
		case *ast.LiteralType:
			if !typ.IsString {
				return nil, invalid(file, m, src)
			}
			flag.Kind = StringUnion
			flag.Variants = []string{typ.Value}
		case *ast.UnionType:
			variants, ok := stringUnion(typ)
			if !ok {
				return nil, invalid(file, m, src)
			}
			flag.Kind = StringUnion
			flag.Variants = variants
		default:
			return nil, invalid(file, m, src)
		}
		spec.Flags = append(spec.Flags, flag)
	}
	return spec, nil
}

func stringUnion(u *ast.UnionType) ([]string, bool) {
	var out []string
	for _, t := range u.Types {
		lit, ok := t.(*ast.LiteralType)
		if !ok || !lit.IsString {
			return nil, false
		}
		out = append(out, lit.Value)
	}
	return out, len(out) > 0
}

func invalid(file string, m *ast.PropSig, src []byte) error {
	return diag.New(diag.InvalidStyleFlagType, file, m,
		"style flag %q has unsupported type %s; only boolean and string literal unions are allowed",
		m.Name, typeText(m.Type, src))
}

func typeText(t ast.TypeNode, src []byte) string {
	if t == nil {
		return "unknown"
	}
	s := t.Loc()
	if s.Start.Offset < 0 || s.End.Offset > len(src) || s.Start.Offset >= s.End.Offset {
		return "unknown"
	}
	return string(src[s.Start.Offset:s.End.Offset])
}

// FlagClass is the generated class of flag in the file with the given hash.
// Dev builds append the readable prop name.
func FlagClass(fileHash, flag string, dev bool) string {
	h := xxhash.Sum64String(flag) & 0xfffff
	name := "v" + fileHash + "-" + strconv.FormatUint(h, 36)
	if dev {
		name += "-" + flag
	}
	return name
}

// Assign fills in the generated class of every flag.
func (s *Spec) Assign(fileHash string, dev bool) {
	for i := range s.Flags {
		s.Flags[i].Class = FlagClass(fileHash, s.Flags[i].Prop, dev)
	}
}

// Lookup returns the flag for prop.
func (s *Spec) Lookup(prop string) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Prop == prop {
			return f, true
		}
	}
	return Flag{}, false
}

// Replacements maps authoring selector names to generated classes, suitable
// for cssscan.RewriteAmpClasses.
func (s *Spec) Replacements() map[string]string {
	out := make(map[string]string)
	for _, f := range s.Flags {
		if f.Kind == Boolean {
			out[f.Prop] = f.Class
			continue
		}
		for _, v := range f.Variants {
			out[f.Prop+"-"+v] = f.VariantClass(v)
		}
	}
	return out
}

// Table renders the runtime flag table as an object literal in prop
// declaration order, e.g. `{ active: 'v1a-x', size: 'v1a-y' }`.
func (s *Spec) Table() string {
	parts := make([]string, len(s.Flags))
	for i, f := range s.Flags {
		key := f.Prop
		if !isIdent(key) {
			key = quote(key)
		}
		parts[i] = key + ": " + quote(f.Class)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Missing is a declared flag selector with no matching rule.
type Missing struct {
	Flag     Flag
	Selector string
}

// CheckMissing reports every `&.<flag>` / `&.<flag>-<variant>` selector
// that is absent from the component's CSS.
func (s *Spec) CheckMissing(content string) []Missing {
	have := cssscan.AmpClasses(content)
	var out []Missing
	for _, f := range s.Flags {
		for _, sel := range f.Selectors() {
			if !have[sel] {
				out = append(out, Missing{Flag: f, Selector: sel})
			}
		}
	}
	return out
}

// Undeclared returns `&.` classes in content that look like modifiers but
// match no declared flag selector, sorted.
func (s *Spec) Undeclared(content string) []string {
	known := s.Replacements()
	var out []string
	for name := range cssscan.AmpClasses(content) {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if ch == '_' || ch == '$' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || i > 0 && ch >= '0' && ch <= '9' {
			continue
		}
		return false
	}
	return true
}

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
