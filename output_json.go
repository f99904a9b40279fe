package vindur

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Stats     JSONStats   `json:"stats"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
}

// JSONStats contains compilation statistics
type JSONStats struct {
	FilesDiscovered int            `json:"files_discovered"`
	FilesSkipped    int            `json:"files_skipped"`
	FilesFailed     int            `json:"files_failed"`
	Declarations    map[string]int `json:"declarations"`
	CSSBytes        int            `json:"css_bytes"`
	HelpersCompiled int64          `json:"helpers_compiled"`
	HelperCacheHits int64          `json:"helper_cache_hits"`
}

// JSONIssue represents a single issue
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// WriteJSON writes the check result as JSON
func WriteJSON(w io.Writer, result *CheckResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts CheckResult to JSONOutput
func buildJSONOutput(result *CheckResult) JSONOutput {
	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Kind:     issue.Kind,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	declarations := result.Stats.Declarations
	if declarations == nil {
		declarations = map[string]int{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues) + result.TruncatedCount,
			Errors:       result.ErrorCount,
			Warnings:     result.WarningCount,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.Stats.FilesScanned,
		},
		Stats: JSONStats{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesSkipped:    result.Stats.FilesSkipped,
			FilesFailed:     result.Stats.FilesFailed,
			Declarations:    declarations,
			CSSBytes:        result.Stats.CSSBytes,
			HelpersCompiled: result.Stats.CacheCompiled,
			HelperCacheHits: result.Stats.CacheHits,
		},
		Issues: jsonIssues,
	}
}
