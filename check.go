package vindur

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucasols/vindur-sub001/internal/report"
)

// ReportConfig controls issue limits and printing.
type ReportConfig = report.Config

// CheckConfig configures a check run: every matched file is compiled in dev
// mode and nothing is written.
type CheckConfig struct {
	Patterns      []string
	RootDir       string
	Aliases       map[string]string
	LibraryModule string
	Concurrency   int
	Logger        *zap.Logger

	// Report limits the issues kept in the result.
	Report ReportConfig
}

// CheckResult holds the issues and statistics of a check run.
type CheckResult struct {
	Issues         []Issue
	TruncatedCount int
	ErrorCount     int
	WarningCount   int
	Stats          Stats
}

// Check compiles every file matched by config.Patterns and reports compile
// errors and dev-mode warnings as issues.
func Check(config CheckConfig) (*CheckResult, error) {
	return CheckContext(context.Background(), config)
}

// CheckContext is Check with a context.
func CheckContext(ctx context.Context, config CheckConfig) (*CheckResult, error) {
	s, err := newSession(config.RootDir, config.Aliases, config.LibraryModule, config.Concurrency, config.Logger)
	if err != nil {
		return nil, err
	}

	files, scan, err := expandGlobPatternsWithStats(config.Patterns, "")
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	results := s.compileAll(ctx, files, Config{Dev: true})

	var issues []Issue
	sources := make(map[string][]byte)
	for _, c := range results {
		if c.abs != "" && c.src != nil {
			sources[c.abs] = c.src
		}
		if c.err != nil {
			file := c.abs
			if file == "" {
				file = c.path
			}
			issues = append(issues, IssueFromError(file, c.err))
			continue
		}
		for _, w := range c.result.Warnings {
			issues = append(issues, IssueFromWarning(w))
		}
	}
	sourceLines(issues, sources)
	report.SortIssues(issues)

	result := &CheckResult{Stats: s.stats(scan, results)}
	result.Issues, result.TruncatedCount = report.Limit(issues, config.Report)
	result.ErrorCount, result.WarningCount = report.Counts(issues)

	s.log.Debug("check finished",
		zap.Int("files", len(files)),
		zap.Int("errors", result.ErrorCount),
		zap.Int("warnings", result.WarningCount))
	return result, nil
}
