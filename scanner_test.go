package vindur

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldSkipFile(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		outDir string
		want   bool
	}{
		{name: "tsx source", path: "/app/src/button.tsx", want: false},
		{name: "plain ts", path: "/app/src/theme.ts", want: false},
		{name: "module js", path: "/app/src/util.mjs", want: false},
		{name: "declaration file", path: "/app/src/env.d.ts", want: true},
		{name: "node_modules", path: "/app/node_modules/lib/index.js", want: true},
		{name: "relative node_modules", path: "node_modules/lib/index.js", want: true},
		{name: "stylesheet", path: "/app/src/reset.css", want: true},
		{name: "inside out dir", path: "/app/dist/src/button.tsx", outDir: "/app/dist", want: true},
		{name: "sibling of out dir", path: "/app/dist2/button.tsx", outDir: "/app/dist", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, shouldSkipFile(tt.path, tt.outDir))
		})
	}
}

func TestIsWithin(t *testing.T) {
	assert.True(t, isWithin("/a/b/c.tsx", "/a"))
	assert.True(t, isWithin("/a/b", "/a/b"))
	assert.False(t, isWithin("/a/bc/d.tsx", "/a/b"))
	assert.False(t, isWithin("/x/y.tsx", "/a"))
}

func TestExpandGlobPatternsWithStats(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{
		"src/a.tsx",
		"src/nested/b.ts",
		"src/env.d.ts",
		"src/node_modules/pkg/index.js",
		"src/notes.md",
	} {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	patterns := []string{
		filepath.Join(dir, "src", "**", "*"),
		filepath.Join(dir, "src", "a.tsx"), // duplicate
	}
	files, stats, err := expandGlobPatternsWithStats(patterns, "")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "src", "a.tsx"),
		filepath.Join(dir, "src", "nested", "b.ts"),
	}, files)
	assert.Equal(t, ScanStats{FilesDiscovered: 5, FilesScanned: 2, FilesSkipped: 3}, stats)
}

func TestExpandGlobPatternsBadPattern(t *testing.T) {
	_, _, err := expandGlobPatternsWithStats([]string{"src/[.tsx"}, "")
	require.Error(t, err)
}
