package vindur

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/resolver"
	"github.com/lucasols/vindur-sub001/internal/stylesheet"
)

// tpl swaps '~' for backticks so fixtures can live in raw strings.
func tpl(s string) string { return strings.ReplaceAll(s, "~", "`") }

const helpersFile = `import { vindurFn } from 'vindur';
export const spacing = vindurFn((m: number) => ~${m * 8}px~);
`

func memFS(files map[string]string) MapFS {
	fs := MapFS{}
	for path, content := range files {
		fs[path] = tpl(content)
	}
	return fs
}

func TestCompileInMemory(t *testing.T) {
	const entry = "/proj/src/box.tsx"
	fs := memFS(map[string]string{
		"/proj/src/helpers.ts": helpersFile,
		entry: `import { css } from 'vindur';
import { spacing } from '#/helpers';
export const box = css~
  margin: ${spacing(2)};
~;
`,
	})

	result, err := Compile(Config{
		Path:    entry,
		Dev:     true,
		Aliases: map[string]string{"#/": "/proj/src"},
		RootDir: "/proj",
		FS:      fs,
	})
	require.NoError(t, err)

	id := stylesheet.DeclID(stylesheet.FileHash(entry, "/proj"), 1, "box", true)
	assert.Equal(t, "."+id+" {\n  margin: 16px;\n}\n", result.CSS)
	assert.Contains(t, result.Code, "export const box = '"+id+"';")
	assert.Equal(t, ApplyEdits([]byte(fs[entry]), result.Edits), result.Code)
	require.Len(t, result.Declarations, 1)
	assert.Equal(t, "box", result.Declarations[0].Name)
	assert.Equal(t, stylesheet.FileHash(entry, "/proj"), result.FileHash)
	assert.Nil(t, result.SourceMap)
}

func TestCompileSharedCache(t *testing.T) {
	fs := memFS(map[string]string{
		"/proj/src/helpers.ts": helpersFile,
		"/proj/src/a.tsx":      "import { css } from 'vindur';\nimport { spacing } from './helpers';\nconst a = css~gap: ${spacing(1)};~;\n",
		"/proj/src/b.tsx":      "import { css } from 'vindur';\nimport { spacing } from './helpers';\nconst b = css~gap: ${spacing(3)};~;\n",
	})

	var events []CacheEvent
	cache := NewFunctionCache(nil, WithCacheObserver(func(e CacheEvent) {
		events = append(events, e)
	}))

	for path, want := range map[string]string{"/proj/src/a.tsx": "gap: 8px;", "/proj/src/b.tsx": "gap: 24px;"} {
		result, err := Compile(Config{Path: path, FS: fs, Cache: cache})
		require.NoError(t, err)
		assert.Contains(t, result.CSS, want)
	}

	compiled := 0
	for _, e := range events {
		if e.Kind == resolver.EventCompiled {
			compiled++
			assert.Equal(t, "spacing", e.Name)
		}
	}
	assert.Equal(t, 1, compiled)
	assert.GreaterOrEqual(t, cache.Stats().Hits, int64(1))
}

func TestCompileSourceOverridesFS(t *testing.T) {
	const entry = "/proj/src/a.tsx"
	result, err := Compile(Config{
		Path:   entry,
		Source: []byte(tpl("import { css } from 'vindur';\nconst a = css~color: red;~;\n")),
		FS:     MapFS{},
	})
	require.NoError(t, err)
	assert.Contains(t, result.CSS, "color: red;")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
	}{
		{
			name: "syntax error",
			src:  "const = ;",
			kind: diag.SyntaxError,
		},
		{
			name: "unresolved import",
			src:  "import { css } from 'vindur';\nimport { x } from './missing';\nconst a = css~color: ${x};~;\n",
			kind: diag.UnresolvedReference,
		},
		{
			name: "unknown function",
			src:  "import { css } from 'vindur';\nimport { f } from 'somewhere';\nconst a = css~color: ${f(1)};~;\n",
			kind: diag.UnresolvedFunctionCall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compile(Config{Path: "/proj/src/a.tsx", Source: []byte(tpl(tt.src)), FS: MapFS{}})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.kind, diag.KindOf(err), err.Error())
		})
	}
}

func TestCompileSourceMapAndWarnings(t *testing.T) {
	const entry = "/proj/src/card.tsx"
	src := tpl(`import { styled } from 'vindur';
const Card = styled.div~
  color: red;
~;
export function View() {
  return <Card cx={{ active: true }} />;
}
`)

	var warnings []Warning
	result, err := Compile(Config{
		Path:      entry,
		Source:    []byte(src),
		Dev:       true,
		SourceMap: true,
		FS:        MapFS{},
		OnWarning: func(w Warning) { warnings = append(warnings, w) },
	})
	require.NoError(t, err)

	var m struct {
		Version int      `json:"version"`
		File    string   `json:"file"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(result.SourceMap, &m))
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, "card.tsx.css", m.File)
	assert.Equal(t, []string{entry}, m.Sources)

	require.Len(t, warnings, 1)
	assert.Equal(t, diag.MissingCxClass, warnings[0].Kind)
	assert.Equal(t, warnings, result.Warnings)
	assert.True(t, strings.HasPrefix(result.Code, "import { _vSC } from 'vindur';\n"))
}
