package vindur

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cxFile = `import { styled } from 'vindur';
const Card = styled.div~
  &.selected { color: red; }
~;
export function View({ on }: { on: boolean }) {
  return <Card cx={{ selected: on, muted: !on }} />;
}
`

func TestCheckReportsIssues(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/card.tsx":   cxFile,
		"src/broken.tsx": cycleFile,
		"src/ok.tsx":     "import { css } from 'vindur';\nexport const ok = css~color: red;~;\n",
	})

	result, err := Check(CheckConfig{
		Patterns: []string{filepath.Join(dir, "src", "*.tsx")},
		RootDir:  dir,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	require.Len(t, result.Issues, 2)

	// sorted by file name
	cycle, cx := result.Issues[0], result.Issues[1]

	assert.Equal(t, "CircularReference", cycle.Kind)
	assert.Equal(t, SeverityError, cycle.Severity)
	assert.Equal(t, filepath.Join(dir, "src", "broken.tsx"), cycle.Pos.Filename)
	assert.Contains(t, cycle.Text, "circular reference detected (")
	require.Len(t, cycle.SourceLines, 1)

	assert.Equal(t, "MissingCxClass", cx.Kind)
	assert.Equal(t, SeverityWarning, cx.Severity)
	assert.Equal(t, Linter, cx.FromLinter)
	assert.Equal(t, 6, cx.Pos.Line)
	assert.Equal(t, []string{"  return <Card cx={{ selected: on, muted: !on }} />;"}, cx.SourceLines)

	assert.Equal(t, 3, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.FilesFailed)
}

func TestCheckLimitsIssues(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/a.tsx": cxFile,
		"src/b.tsx": cxFile,
		"src/c.tsx": cxFile,
	})

	result, err := Check(CheckConfig{
		Patterns: []string{filepath.Join(dir, "src", "*.tsx")},
		RootDir:  dir,
		Report:   ReportConfig{MaxSameIssues: 1},
	})
	require.NoError(t, err)
	assert.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.TruncatedCount)
	assert.Equal(t, 3, result.WarningCount)
}

func TestLineAt(t *testing.T) {
	src := []byte("one\r\ntwo\nthree")

	tests := []struct {
		line int
		want string
		ok   bool
	}{
		{line: 1, want: "one", ok: true},
		{line: 2, want: "two", ok: true},
		{line: 3, want: "three", ok: true},
		{line: 4, ok: false},
		{line: 0, ok: false},
	}

	for _, tt := range tests {
		got, ok := lineAt(src, tt.line)
		assert.Equal(t, tt.ok, ok, "line %d", tt.line)
		assert.Equal(t, tt.want, got, "line %d", tt.line)
	}
}
