package vindur

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/report"
)

// Issue is one compile error or warning in golangci-lint format.
type Issue = report.Issue

// IssuePos specifies the exact location of an issue
type IssuePos = report.IssuePos

// Linter is the FromLinter value of every Issue.
const Linter = "vindur"

// Severity constants
const (
	SeverityError   = report.SeverityError
	SeverityWarning = report.SeverityWarning
)

// IssueFromError converts a failed compilation of file into an Issue. The
// location comes from the first *Error in err's chain, which may point
// into an imported file.
func IssueFromError(file string, err error) Issue {
	issue := Issue{
		FromLinter: Linter,
		Severity:   SeverityError,
		Text:       err.Error(),
		Pos:        IssuePos{Filename: file},
	}
	if e, ok := diag.As(err); ok {
		issue.Kind = string(e.Kind)
		issue.Text = e.Msg
		if len(e.Cycle) > 0 {
			issue.Text += " (" + strings.Join(e.Cycle, " -> ") + ")"
		}
		if e.File != "" {
			issue.Pos.Filename = e.File
		}
		issue.Pos.Line = e.Pos.Line
		issue.Pos.Column = e.Pos.Column
	}
	return issue
}

// IssueFromWarning converts a dev-mode warning into an Issue.
func IssueFromWarning(w Warning) Issue {
	return Issue{
		FromLinter: Linter,
		Severity:   SeverityWarning,
		Kind:       string(w.Kind),
		Text:       w.Msg,
		Pos: IssuePos{
			Filename: w.File,
			Line:     w.Pos.Line,
			Column:   w.Pos.Column,
		},
	}
}

// IssuesFromErrors splits a combined Build error back into one Issue per
// file failure.
func IssuesFromErrors(err error) []Issue {
	var issues []Issue
	for _, e := range multierr.Errors(err) {
		file := ""
		var pathErr *os.PathError
		if errors.As(e, &pathErr) {
			file = pathErr.Path
		}
		issues = append(issues, IssueFromError(file, e))
	}
	return issues
}

// sourceLines fills SourceLines and shortens file names to paths relative
// to the working directory. sources holds already-read file contents by
// absolute path; other files are read on demand.
func sourceLines(issues []Issue, sources map[string][]byte) {
	for i := range issues {
		issue := &issues[i]
		abs := issue.Pos.Filename
		if issue.Pos.Line > 0 && abs != "" {
			src, ok := sources[abs]
			if !ok {
				// #nosec G304 - the file was just compiled or imported
				data, err := os.ReadFile(abs)
				if err == nil {
					src = data
				}
				sources[abs] = src
			}
			if line, ok := lineAt(src, issue.Pos.Line); ok {
				issue.SourceLines = []string{line}
			}
		}
		if abs != "" {
			issue.Pos.Filename = GetRelativePath(abs)
		}
	}
}

// lineAt returns the 1-based line n of src without its line terminator.
func lineAt(src []byte, n int) (string, bool) {
	if n <= 0 || src == nil {
		return "", false
	}
	for i := 1; i < n; i++ {
		nl := bytes.IndexByte(src, '\n')
		if nl < 0 {
			return "", false
		}
		src = src[nl+1:]
	}
	if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	return strings.TrimRight(string(src), "\r"), true
}
