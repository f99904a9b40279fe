package cssscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClasses(t *testing.T) {
	content := `
  color: red;
  &.active { color: blue; }
  .icon, &.size-lg:hover { width: 1.5em; background: url(a.png); }
`
	refs := Classes(content)
	require.Len(t, refs, 3)

	assert.Equal(t, "active", refs[0].Name)
	assert.True(t, refs[0].Amp)
	assert.Equal(t, "icon", refs[1].Name)
	assert.False(t, refs[1].Amp)
	assert.Equal(t, "size-lg", refs[2].Name)
	assert.True(t, refs[2].Amp)

	assert.Equal(t, byte('.'), content[refs[0].Offset])
}

func TestAmpClasses(t *testing.T) {
	got := AmpClasses("&.a{} .b{} &.c:hover{} & .d{}")
	assert.Equal(t, map[string]bool{"a": true, "c": true}, got)
}

func TestRewriteAmpClasses(t *testing.T) {
	tests := []struct {
		name string
		in   string
		repl map[string]string
		want string
	}{
		{
			name: "flag and variant",
			in:   "color: red;\n&.active { color: blue; }\n&.size-sm { padding: 0; }\n",
			repl: map[string]string{"active": "v1-a-active", "size-sm": "v1-b-size-sm"},
			want: "color: red;\n&.v1-a-active { color: blue; }\n&.v1-b-size-sm { padding: 0; }\n",
		},
		{
			name: "descendant class untouched",
			in:   ".active { color: blue; } & .active {}",
			repl: map[string]string{"active": "x"},
			want: ".active { color: blue; } & .active {}",
		},
		{
			name: "no replacements",
			in:   "&.active{}",
			repl: nil,
			want: "&.active{}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteAmpClasses(tt.in, tt.repl))
		})
	}
}

func TestTopLevelRules(t *testing.T) {
	content := "body { margin: 0; }\n\n@media (min-width: 1px) {\n  a { color: red; }\n}\n.x { }"
	starts := TopLevelRules(content)
	require.Len(t, starts, 3)
	assert.Equal(t, 0, LineOf(content, starts[0]))
	assert.Equal(t, 2, LineOf(content, starts[1]))
	assert.Equal(t, 5, LineOf(content, starts[2]))
}
