package vindur

import (
	"io"
	"os"

	"github.com/lucasols/vindur-sub001/internal/report"
)

// OutputFormat selects how WriteOutput renders a CheckResult.
type OutputFormat string

// Output formats
const (
	OutputIssues  OutputFormat = "issues"  // golangci-lint style issues
	OutputSummary OutputFormat = "summary" // statistics only
	OutputFull    OutputFormat = "full"    // issues plus statistics
	OutputJSON    OutputFormat = "json"    // machine-readable
)

// DetermineOutputFormat selects the output format from flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Quiet wins (exit code only)
	if quiet {
		return OutputIssues
	}

	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	}

	// Following golangci-lint's UX: issues only by default
	return OutputIssues
}

// WriteOutput writes the check result in the given format
func WriteOutput(w io.Writer, result *CheckResult, format OutputFormat, config ReportConfig) {
	summary := report.Summary{Issues: result.Issues, TruncatedCount: result.TruncatedCount}

	switch format {
	case OutputIssues:
		reporter := report.NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(summary)

	case OutputSummary:
		verboseReporter := report.NewVerboseReporter(w, report.ShouldUseColors(config))
		verboseReporter.PrintStatistics(result.Stats)
		verboseReporter.PrintDeclarations(result.Stats)

	case OutputFull:
		reporter := report.NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(summary)

		verboseReporter := report.NewVerboseReporter(w, reporter.UseColors())
		verboseReporter.PrintStatistics(result.Stats)
		verboseReporter.PrintDeclarations(result.Stats)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			// Log error but don't crash
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}
	}
}
