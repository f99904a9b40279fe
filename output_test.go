package vindur

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *CheckResult {
	return &CheckResult{
		Issues: []Issue{
			{
				FromLinter:  Linter,
				Text:        "invalid interpolation ${user.name}: not a constant",
				Severity:    SeverityError,
				Kind:        "InvalidInterpolation",
				SourceLines: []string{"  color: ${user.name};"},
				Pos:         IssuePos{Filename: "src/a.tsx", Line: 4, Column: 12},
			},
			{
				FromLinter: Linter,
				Text:       "Button: style flag \"primary\" has no matching `&.primary` rule",
				Severity:   SeverityWarning,
				Kind:       "MissingModifierStyle",
				Pos:        IssuePos{Filename: "src/b.tsx", Line: 2, Column: 30},
			},
		},
		TruncatedCount: 1,
		ErrorCount:     1,
		WarningCount:   2,
		Stats: Stats{
			FilesDiscovered: 3,
			FilesScanned:    2,
			FilesSkipped:    1,
			Declarations:    map[string]int{"css": 4, "styled": 1},
			CSSBytes:        120,
			CacheCompiled:   2,
			CacheHits:       5,
		},
	}
}

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		flag  string
		quiet bool
		want  OutputFormat
	}{
		{flag: "", want: OutputIssues},
		{flag: "json", want: OutputJSON},
		{flag: "summary", want: OutputSummary},
		{flag: "full", want: OutputFull},
		{flag: "bogus", want: OutputIssues},
		{flag: "json", quiet: true, want: OutputIssues},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineOutputFormat(tt.flag, tt.quiet))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0", out.Version)
	assert.Equal(t, JSONSummary{TotalIssues: 3, Errors: 1, Warnings: 2, Truncated: 1, FilesScanned: 2}, out.Summary)
	assert.Equal(t, map[string]int{"css": 4, "styled": 1}, out.Stats.Declarations)
	assert.Equal(t, int64(5), out.Stats.HelperCacheHits)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, JSONIssue{
		File:     "src/a.tsx",
		Line:     4,
		Column:   12,
		Severity: "error",
		Kind:     "InvalidInterpolation",
		Message:  "invalid interpolation ${user.name}: not a constant",
		Linter:   "vindur",
		Source:   "  color: ${user.name};",
	}, out.Issues[0])
}

func TestWriteOutputFormats(t *testing.T) {
	config := ReportConfig{PrintIssuedLines: true, PrintLinterName: true}

	tests := []struct {
		format   OutputFormat
		contains []string
		excludes []string
	}{
		{
			format:   OutputIssues,
			contains: []string{"src/a.tsx:4:12:", "(vindur)", "2 issues (1 error, 1 warning; 1 issue truncated):"},
			excludes: []string{"Build Statistics"},
		},
		{
			format:   OutputSummary,
			contains: []string{"Build Statistics", "Helper Cache Hits:  5", "css:      4"},
			excludes: []string{"src/a.tsx"},
		},
		{
			format:   OutputFull,
			contains: []string{"src/b.tsx:2:30:", "Build Statistics", "styled:   1"},
		},
		{
			format:   OutputJSON,
			contains: []string{`"total_issues": 3`},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			var buf bytes.Buffer
			WriteOutput(&buf, sampleResult(), tt.format, config)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
