package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	vindur "github.com/lucasols/vindur-sub001"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/vindur
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of vindur",
	Run: func(cmd *cobra.Command, _ []string) {
		v := version
		if v == "dev" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				v = info.Main.Version
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "vindur %s (runtime library %q)\n", v, vindur.DefaultLibrary)
	},
}
