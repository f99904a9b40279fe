package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .vindur.yaml config file",
	Long:  `Create a .vindur.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".vindur.yaml"); err == nil && !force {
			return fmt.Errorf(".vindur.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".vindur.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .vindur.yaml")
		return nil
	},
}

const defaultConfig = `# vindur configuration

# Shared settings
verbose: false
library: vindur
root: .
concurrency: 0           # 0 = GOMAXPROCS

# Import aliases: prefix -> directory (relative to root)
aliases:
  "#/": src

# Build settings
build:
  patterns:
    - "src/**/*.{ts,tsx,js,jsx}"
  out-dir: dist/vindur
  dev: false
  production: true
  source-map: true
  write-code: false

# Check settings
check:
  patterns:
    - "src/**/*.{ts,tsx,js,jsx}"
  strict: false
  output-format: issues    # issues | summary | full | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
