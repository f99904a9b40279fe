package tsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasols/vindur-sub001/internal/ast"
)

func TestParseImports(t *testing.T) {
	src := `import { css, styled as s } from 'vindur';
import theme from './theme';
import * as colors from '#/colors';
`
	f, err := Parse("/src/app.tsx", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Body, 3)

	first, ok := f.Body[0].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "vindur", first.Source)
	require.Len(t, first.Specs, 2)
	assert.Equal(t, "css", first.Specs[0].Imported)
	assert.Equal(t, "css", first.Specs[0].Local)
	assert.Equal(t, "styled", first.Specs[1].Imported)
	assert.Equal(t, "s", first.Specs[1].Local)

	def := f.Body[1].(*ast.ImportDecl)
	assert.Equal(t, "default", def.Specs[0].Imported)
	assert.Equal(t, "theme", def.Specs[0].Local)

	ns := f.Body[2].(*ast.ImportDecl)
	assert.Equal(t, "*", ns.Specs[0].Imported)
	assert.Equal(t, "colors", ns.Specs[0].Local)
}

func TestParseTaggedTemplate(t *testing.T) {
	src := "export const button = css`\n  color: ${primary};\n  padding: ${spacing(2)};\n`;\n"
	f, err := Parse("/src/button.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Body, 1)

	decl, ok := f.Body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.True(t, decl.Exported)
	assert.Equal(t, "const", decl.Kind)
	require.Len(t, decl.Decls, 1)
	assert.Equal(t, "button", decl.Decls[0].Name)

	tt, ok := decl.Decls[0].Value.(*ast.TaggedTemplate)
	require.True(t, ok)
	assert.Equal(t, "css", tt.Tag.(*ast.Ident).Name)
	require.Len(t, tt.Quasi.Quasis, 3)
	require.Len(t, tt.Quasi.Exprs, 2)
	assert.Equal(t, "\n  color: ", tt.Quasi.Quasis[0])
	assert.Equal(t, ";\n  padding: ", tt.Quasi.Quasis[1])
	assert.Equal(t, ";\n", tt.Quasi.Quasis[2])

	call, ok := tt.Quasi.Exprs[1].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "spacing", call.Callee.(*ast.Ident).Name)
	require.Len(t, call.Args, 1)
	assert.Equal(t, 2.0, call.Args[0].(*ast.NumberLit).Value)

	assert.Equal(t, 1, tt.Span.Start.Line)
	assert.Equal(t, 23, tt.Span.Start.Column)
}

func TestParseStyledWithTypeArgs(t *testing.T) {
	src := "const Button = styled.button<{ active: boolean; size?: 'sm' | 'lg' }>`\n  color: red;\n`;\n"
	f, err := Parse("/src/button.tsx", []byte(src))
	require.NoError(t, err)

	decl := f.Body[0].(*ast.VarDecl)
	tt, ok := decl.Decls[0].Value.(*ast.TaggedTemplate)
	require.True(t, ok)

	tag, ok := tt.Tag.(*ast.Member)
	require.True(t, ok)
	assert.Equal(t, "button", tag.Property)
	assert.Equal(t, "styled", tag.Object.(*ast.Ident).Name)

	require.Len(t, tt.TypeArgs, 1)
	obj, ok := tt.TypeArgs[0].(*ast.ObjectType)
	require.True(t, ok)
	require.Len(t, obj.Members, 2)
	assert.Equal(t, "active", obj.Members[0].Name)
	assert.Equal(t, "boolean", obj.Members[0].Type.(*ast.TypeRef).Name)
	assert.Equal(t, "size", obj.Members[1].Name)
	assert.True(t, obj.Members[1].Optional)

	union, ok := obj.Members[1].Type.(*ast.UnionType)
	require.True(t, ok)
	require.Len(t, union.Types, 2)
	assert.Equal(t, "sm", union.Types[0].(*ast.LiteralType).Value)
	assert.True(t, union.Types[0].(*ast.LiteralType).IsString)
}

func TestParseHelperFunction(t *testing.T) {
	src := "export const spacing = vindurFn((m: number, unit?: string) => `${m * 8}${unit ?? 'px'}`);\n" +
		"export const box = vindurFn(({ size = 4, pad }: { size?: number; pad: number }) => `${size}`);\n"
	f, err := Parse("/src/helpers.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Body, 2)

	call := f.Body[0].(*ast.VarDecl).Decls[0].Value.(*ast.Call)
	arrow, ok := call.Args[0].(*ast.ArrowFunc)
	require.True(t, ok)
	require.Len(t, arrow.Params, 2)
	assert.Equal(t, "m", arrow.Params[0].Name)
	assert.False(t, arrow.Params[0].Optional)
	assert.Equal(t, "unit", arrow.Params[1].Name)
	assert.True(t, arrow.Params[1].Optional)

	body, ok := arrow.Expr.(*ast.TemplateLit)
	require.True(t, ok)
	bin, ok := body.Exprs[0].(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
	assert.Equal(t, "??", body.Exprs[1].(*ast.Binary).Op)

	destructured := f.Body[1].(*ast.VarDecl).Decls[0].Value.(*ast.Call).Args[0].(*ast.ArrowFunc)
	require.Len(t, destructured.Params, 1)
	pat := destructured.Params[0].Pattern
	require.NotNil(t, pat)
	require.Len(t, pat.Props, 2)
	assert.Equal(t, "size", pat.Props[0].Key)
	assert.Equal(t, 4.0, pat.Props[0].Default.(*ast.NumberLit).Value)
	assert.Equal(t, "pad", pat.Props[1].Key)
	assert.Nil(t, pat.Props[1].Default)
}

func TestParseExportsAndFunctions(t *testing.T) {
	src := `function size(n: number) {
  return ` + "`${n}px`" + `;
}
export { size, size as sz };
export { color } from './colors';
`
	f, err := Parse("/src/x.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Body, 3)

	fn, ok := f.Body[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "size", fn.Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ast.Return)
	assert.True(t, ok)

	exp := f.Body[1].(*ast.ExportNamed)
	require.Len(t, exp.Specs, 2)
	assert.Equal(t, "sz", exp.Specs[1].Exported)
	assert.Equal(t, "size", exp.Specs[1].Local)

	re := f.Body[2].(*ast.ExportNamed)
	assert.Equal(t, "./colors", re.Source)
}

func TestParseJSX(t *testing.T) {
	src := `const el = <Button active className={cx({ big: true })}>hi</Button>;` + "\n"
	f, err := Parse("/src/app.tsx", []byte(src))
	require.NoError(t, err)

	el, ok := f.Body[0].(*ast.VarDecl).Decls[0].Value.(*ast.JSXElement)
	require.True(t, ok)
	assert.Equal(t, "Button", el.Name)
	require.Len(t, el.Attrs, 2)
	assert.Equal(t, "active", el.Attrs[0].Name)
	assert.Nil(t, el.Attrs[0].Value)
	_, ok = el.Attrs[1].Value.(*ast.Call)
	assert.True(t, ok)
}

func TestParseStringEscapes(t *testing.T) {
	f, err := Parse("/src/a.ts", []byte(`const a = 'it\'s';`+"\n"))
	require.NoError(t, err)
	lit := f.Body[0].(*ast.VarDecl).Decls[0].Value.(*ast.StringLit)
	assert.Equal(t, "it's", lit.Value)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("/src/bad.ts", []byte("const = ;"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/src/bad.ts")
}

func TestParseAsConst(t *testing.T) {
	f, err := Parse("/src/a.ts", []byte("const size = 4 as const;\n"))
	require.NoError(t, err)
	value := f.Body[0].(*ast.VarDecl).Decls[0].Value
	lit, ok := ast.Unparen(value).(*ast.NumberLit)
	require.True(t, ok)
	assert.Equal(t, 4.0, lit.Value)
}
