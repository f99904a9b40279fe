package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vindur "github.com/lucasols/vindur-sub001"
	"github.com/lucasols/vindur-sub001/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile style declarations and write stylesheets",
	Long: `Compile every matched source file and write <out-dir>/<file>.css, its
source map and, with --write-code, the rewritten source.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns of source files (default: src/**/*.{ts,tsx,js,jsx})")
	f.String("out-dir", "dist/vindur", "Output directory")
	f.Bool("dev", false, "Dev build: readable identifiers, theme custom properties and warnings")
	f.Bool("production", true, "Production build")
	f.Bool("source-map", true, "Write .css.map files")
	f.Bool("write-code", false, "Write rewritten sources next to the stylesheets")
}

func runBuild(_ *cobra.Command, _ []string) error {
	config, err := buildBuildConfig()
	if err != nil {
		return err
	}
	log := loggerFromConfig()
	defer func() { _ = log.Sync() }()
	config.Logger = log

	quiet := getBoolWithFallback("quiet", "quiet", false)
	reportConfig := buildReportConfig()
	reporter := report.NewReporter(os.Stdout, reportConfig)

	var warnings []vindur.Issue
	config.OnWarning = func(w vindur.Warning) {
		warnings = append(warnings, vindur.IssueFromWarning(w))
	}

	result, buildErr := vindur.Build(config)
	if result == nil {
		return fmt.Errorf("build failed: %w", buildErr)
	}

	failures := vindur.IssuesFromErrors(buildErr)
	if !quiet {
		reporter.PrintIssues(append(failures, warnings...))
		fmt.Printf("Compiled %d files into %s\n", result.Stats.FilesScanned-result.Stats.FilesFailed, config.OutDir)
		fmt.Printf("  Files written: %d\n", len(result.Written))
		if len(failures) > 0 {
			fmt.Println(report.RenderStyle(report.StyleRed, fmt.Sprintf("  Files failed: %d", len(failures)), reporter.UseColors()))
		}
	}

	if buildErr != nil {
		return fmt.Errorf("build failed for %d file(s)", len(failures))
	}
	return nil
}
