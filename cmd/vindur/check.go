package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	vindur "github.com/lucasols/vindur-sub001"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"lint"},
	Short:   "Compile in dev mode and report errors and warnings",
	Long: `Compile every matched source file in dev mode without writing anything.
Compile errors and dev-mode warnings (missing modifier styles, cx classes
without rules) are reported in golangci-lint style or as JSON.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringSlice("patterns", nil, "Glob patterns of source files (default: src/**/*.{ts,tsx,js,jsx})")
	f.Bool("strict", false, "Exit 1 on any issue, warnings included (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (vindur) suffix on issues")
}

func runCheck(_ *cobra.Command, _ []string) error {
	config, err := buildCheckConfig()
	if err != nil {
		return err
	}
	log := loggerFromConfig()
	defer func() { _ = log.Sync() }()
	config.Logger = log

	result, err := vindur.Check(config)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "check.output-format", "")
	format := vindur.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		vindur.WriteOutput(os.Stdout, result, format, config.Report)
	}

	// Exit code logic - "Soft Gate" approach
	if getBoolWithFallback("strict", "check.strict", false) {
		// Strict mode: any issue (error or warning) fails the build
		if result.ErrorCount+result.WarningCount > 0 {
			os.Exit(1)
		}
	} else if result.ErrorCount > 0 {
		// Default: only errors fail the build
		os.Exit(1)
	}

	return nil
}
