package styleflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
)

func objectType(members ...*ast.PropSig) *ast.ObjectType {
	return &ast.ObjectType{Members: members}
}

func prop(name string, t ast.TypeNode) *ast.PropSig {
	return &ast.PropSig{Name: name, Type: t}
}

func strLit(v string) *ast.LiteralType {
	return &ast.LiteralType{Value: v, IsString: true}
}

func TestExtract(t *testing.T) {
	typ := objectType(
		prop("active", &ast.TypeRef{Name: "boolean"}),
		prop("size", &ast.UnionType{Types: []ast.TypeNode{strLit("sm"), strLit("lg")}}),
		prop("tone", strLit("dark")),
	)
	spec, err := Extract(typ, "/src/a.tsx", nil)
	require.NoError(t, err)
	require.Len(t, spec.Flags, 3)

	assert.Equal(t, Boolean, spec.Flags[0].Kind)
	assert.Equal(t, StringUnion, spec.Flags[1].Kind)
	assert.Equal(t, []string{"sm", "lg"}, spec.Flags[1].Variants)
	assert.Equal(t, []string{"dark"}, spec.Flags[2].Variants)
}

func TestExtractRejects(t *testing.T) {
	tests := []struct {
		name string
		typ  ast.TypeNode
	}{
		{"number", objectType(prop("count", &ast.TypeRef{Name: "number"}))},
		{"mixed union", objectType(prop("size", &ast.UnionType{Types: []ast.TypeNode{strLit("sm"), &ast.TypeRef{Name: "number"}}}))},
		{"numeric literal", objectType(prop("n", &ast.LiteralType{Value: "1"}))},
		{"not an object", &ast.TypeRef{Name: "Props"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.typ, "/src/a.tsx", nil)
			require.Error(t, err)
			assert.True(t, diag.Is(err, diag.InvalidStyleFlagType))
		})
	}
}

func TestFlagClass(t *testing.T) {
	prod := FlagClass("abc", "active", false)
	dev := FlagClass("abc", "active", true)
	assert.Regexp(t, `^vabc-[0-9a-z]+$`, prod)
	assert.Equal(t, prod+"-active", dev)
	assert.Equal(t, prod, FlagClass("abc", "active", false))
	assert.NotEqual(t, prod, FlagClass("abc", "disabled", false))
	assert.NotEqual(t, prod, FlagClass("abd", "active", false))
}

func TestCheckMissing(t *testing.T) {
	spec := &Spec{Flags: []Flag{{Prop: "active", Kind: Boolean}}}

	assert.Empty(t, spec.CheckMissing("color: red;\n&.active { color: blue; }"))

	missing := spec.CheckMissing("color: red;")
	require.Len(t, missing, 1)
	assert.Equal(t, "active", missing[0].Selector)
}

func TestCheckMissingVariants(t *testing.T) {
	spec := &Spec{Flags: []Flag{{Prop: "size", Kind: StringUnion, Variants: []string{"sm", "lg"}}}}
	missing := spec.CheckMissing("&.size-sm { padding: 1px; }")
	require.Len(t, missing, 1)
	assert.Equal(t, "size-lg", missing[0].Selector)
}

func TestReplacementsAndTable(t *testing.T) {
	spec := &Spec{Flags: []Flag{
		{Prop: "active", Kind: Boolean},
		{Prop: "size", Kind: StringUnion, Variants: []string{"sm"}},
	}}
	spec.Assign("h1", false)

	repl := spec.Replacements()
	assert.Equal(t, spec.Flags[0].Class, repl["active"])
	assert.Equal(t, spec.Flags[1].Class+"-sm", repl["size-sm"])

	table := spec.Table()
	assert.Equal(t, "{ active: '"+spec.Flags[0].Class+"', size: '"+spec.Flags[1].Class+"' }", table)
}

func TestUndeclared(t *testing.T) {
	spec := &Spec{Flags: []Flag{{Prop: "active", Kind: Boolean}}}
	assert.Equal(t, []string{"actve"}, spec.Undeclared("&.active{} &.actve{}"))
}
