package sourcemap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteVLQ(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{-16, "hB"},
		{123, "2H"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		writeVLQ(&sb, tt.in)
		assert.Equal(t, tt.want, sb.String(), "vlq(%d)", tt.in)
	}
}

func TestMappings(t *testing.T) {
	b := New("app.css", "/src/app.tsx")
	b.Add(Mapping{GenLine: 0, GenCol: 0, SrcLine: 2, SrcCol: 14})
	b.Add(Mapping{GenLine: 4, GenCol: 0, SrcLine: 7, SrcCol: 20})

	m := b.Map()
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, []string{"/src/app.tsx"}, m.Sources)
	assert.Equal(t, "AAEc;;;;AAKM", m.Mappings)
}

func TestSameLineSegments(t *testing.T) {
	b := New("", "a.ts")
	b.Add(Mapping{GenLine: 0, GenCol: 10, SrcLine: 0, SrcCol: 0})
	b.Add(Mapping{GenLine: 0, GenCol: 0, SrcLine: 0, SrcCol: 0})
	assert.Equal(t, "AAAA,UAAA", b.Map().Mappings)
}

func TestJSON(t *testing.T) {
	b := New("app.css", "app.tsx")
	b.SetSourceContent("const x = 1;")
	b.Add(Mapping{})
	raw, err := b.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(3), decoded["version"])
	assert.Equal(t, []any{"const x = 1;"}, decoded["sourcesContent"])
	assert.Equal(t, "AAAA", decoded["mappings"])
}
