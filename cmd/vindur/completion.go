package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	vindur "github.com/lucasols/vindur-sub001"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	},
}

var outputFormats = []vindur.OutputFormat{
	vindur.OutputIssues,
	vindur.OutputSummary,
	vindur.OutputFull,
	vindur.OutputJSON,
}

// completeOutputFormat offers the check output formats matching the typed
// prefix.
func completeOutputFormat(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, f := range outputFormats {
		if strings.HasPrefix(string(f), prefix) {
			names = append(names, string(f))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeSourceFiles restricts file completion to the extensions the
// compiler reads.
func completeSourceFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"ts", "tsx", "mts", "cts", "js", "jsx", "mjs", "cjs"}, cobra.ShellCompDirectiveFilterFileExt
}

// Flags are looked up at registration, so this relies on build.go and
// check.go defining theirs first.
func init() {
	_ = checkCmd.RegisterFlagCompletionFunc("output-format", completeOutputFormat)
	_ = checkCmd.RegisterFlagCompletionFunc("patterns", completeSourceFiles)
	_ = buildCmd.RegisterFlagCompletionFunc("patterns", completeSourceFiles)
}
