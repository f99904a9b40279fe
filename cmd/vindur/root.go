package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vindur",
	Short: "Compile-time CSS-in-JS for TypeScript and JSX projects",
	Long: `Resolves css, styled, keyframes and createGlobalStyle templates at build time.
Every declaration becomes a generated class name in the source and a rule in
a static stylesheet, so no style code runs in the browser.`,
	// Default behavior: run build when no subcommand is given.
	// loadConfig is called here because PreRunE of buildCmd is not
	// triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(buildCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".vindur.yaml", "Config file path")
	pf.String("root", "", "Project root for identifiers and output paths (default: working directory)")
	pf.String("library", "vindur", "Import specifier of the runtime library")
	pf.StringSlice("alias", nil, "Import alias as prefix=dir, e.g. #/=src (repeatable)")
	pf.Int("concurrency", 0, "Parallel compilations (0 = GOMAXPROCS)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
