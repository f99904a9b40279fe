// Package report prints compiler issues in golangci-lint style.
package report

// Issue is one compile error or warning in golangci-lint format.
type Issue struct {
	FromLinter  string     `json:"FromLinter"`  // "vindur"
	Text        string     `json:"Text"`        // "circular reference detected (a.ts#x -> b.ts#y -> a.ts#x)"
	Severity    string     `json:"Severity"`    // "warning" or "error"
	Kind        string     `json:"Kind"`        // diagnostic kind, e.g. "MissingCxClass"
	SourceLines []string   `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos   `json:"Pos"`
	LineRange   *LineRange `json:"LineRange"`
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"` // 1-based
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// Severity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Config controls how issues are printed.
type Config struct {
	MaxIssuesPerLinter int
	MaxSameIssues      int
	PrintIssuedLines   bool
	PrintLinterName    bool
	UseColors          bool
}

// Summary is what PrintSummary reports on.
type Summary struct {
	Issues         []Issue
	TruncatedCount int
}

// Counts returns the number of errors and warnings in issues.
func Counts(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Limit applies MaxIssuesPerLinter and MaxSameIssues and returns the kept
// issues with the number dropped.
func Limit(issues []Issue, config Config) ([]Issue, int) {
	originalCount := len(issues)

	if config.MaxIssuesPerLinter > 0 {
		perLinter := make(map[string]int)
		var kept []Issue
		for _, issue := range issues {
			if perLinter[issue.FromLinter] < config.MaxIssuesPerLinter {
				kept = append(kept, issue)
				perLinter[issue.FromLinter]++
			}
		}
		issues = kept
	}

	// Deduplication by message text
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}
