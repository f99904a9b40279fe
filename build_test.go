package vindur

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/stylesheet"
)

// writeProject creates files under a temp dir and returns the dir.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(tpl(content)), 0o644))
	}
	return dir
}

const cycleFile = `import { css } from 'vindur';
const b = css~
  ${c};
~;
const c = css~
  ${b};
~;
`

func TestBuildWritesOutputs(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/helpers.ts": helpersFile,
		"src/a.tsx":      "import { css } from 'vindur';\nimport { spacing } from '#/helpers';\nexport const a = css~gap: ${spacing(1)};~;\n",
		"src/b.tsx":      "import { css } from 'vindur';\nimport { spacing } from '#/helpers';\nexport const b = css~gap: ${spacing(2)};~;\n",
		"src/types.d.ts": "export type X = string;\n",
		"src/broken.tsx": cycleFile,
	})
	outDir := filepath.Join(dir, "out")

	result, err := Build(BuildConfig{
		Patterns:    []string{filepath.Join(dir, "src", "**", "*.{ts,tsx}")},
		OutDir:      outDir,
		RootDir:     dir,
		SourceMap:   true,
		WriteCode:   true,
		Aliases:     map[string]string{"#/": "src"},
		Concurrency: 2,
	})
	require.Error(t, err)
	require.NotNil(t, result)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	assert.True(t, diag.Is(errs[0], diag.CircularReference), errs[0].Error())

	aPath := filepath.Join(dir, "src", "a.tsx")
	css, readErr := os.ReadFile(filepath.Join(outDir, "src", "a.tsx.css"))
	require.NoError(t, readErr)
	id := stylesheet.DeclID(stylesheet.FileHash(aPath, dir), 1, "", false)
	assert.Equal(t, "."+id+" {\n  gap: 8px;\n}\n", string(css))

	code, readErr := os.ReadFile(filepath.Join(outDir, "src", "a.tsx"))
	require.NoError(t, readErr)
	assert.Contains(t, string(code), "export const a = '"+id+"';")

	assert.FileExists(t, filepath.Join(outDir, "src", "b.tsx.css.map"))
	assert.FileExists(t, filepath.Join(outDir, "src", "helpers.ts"))
	assert.NoFileExists(t, filepath.Join(outDir, "src", "helpers.ts.css"))
	assert.NoFileExists(t, filepath.Join(outDir, "src", "broken.tsx.css"))

	stats := result.Stats
	assert.Equal(t, 5, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 4, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 2, stats.Declarations["css"])
	assert.Equal(t, int64(1), stats.CacheCompiled)
}

func TestBuildSkipsOutDir(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/a.tsx":      "import { css } from 'vindur';\nexport const a = css~color: red;~;\n",
		"src/out/b.tsx":  "import { css } from 'vindur';\nexport const b = css~color: blue;~;\n",
		"src/plain.js":   "export const n = 1;\n",
		"src/style.scss": ".a { color: red; }\n",
	})

	result, err := Build(BuildConfig{
		Patterns: []string{filepath.Join(dir, "src", "**", "*")},
		OutDir:   filepath.Join(dir, "src", "out"),
		RootDir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.FilesScanned)
	assert.Equal(t, []string{filepath.Join(dir, "src", "out", "src", "a.tsx.css")}, result.Written)
}

func TestBuildReportsWarningsSerially(t *testing.T) {
	var files = map[string]string{}
	for _, name := range []string{"a", "b", "c", "d"} {
		files["src/"+name+".tsx"] = `import { styled } from 'vindur';
const Card = styled.div~color: red;~;
export function View() {
  return <Card cx={{ missing: true }} />;
}
`
	}
	dir := writeProject(t, files)

	calls := 0
	result, err := Build(BuildConfig{
		Patterns:  []string{filepath.Join(dir, "src", "*.tsx")},
		OutDir:    filepath.Join(dir, "out"),
		RootDir:   dir,
		Dev:       true,
		OnWarning: func(Warning) { calls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Len(t, result.Warnings, 4)
}
