package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	vindur "github.com/lucasols/vindur-sub001"
)

var k = koanf.New(".")

// config file sections; the first underscore of an env var after the prefix
// separates a section from its key
var sections = map[string]bool{"build": true, "check": true}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".vindur.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (VINDUR_* prefix)
	if err := k.Load(env.Provider("VINDUR_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
//
//	VINDUR_BUILD_OUT_DIR -> build.out-dir
//	VINDUR_CHECK_STRICT  -> check.strict
//	VINDUR_VERBOSE       -> verbose
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "VINDUR_"))
	if section, rest, ok := strings.Cut(s, "_"); ok && sections[section] {
		return section + "." + strings.ReplaceAll(rest, "_", "-")
	}
	return strings.ReplaceAll(s, "_", "-")
}

// buildBuildConfig constructs the library's BuildConfig from koanf state.
func buildBuildConfig() (vindur.BuildConfig, error) {
	aliases, err := aliasesFromConfig()
	if err != nil {
		return vindur.BuildConfig{}, err
	}
	return vindur.BuildConfig{
		Patterns:      patternsFromConfig("build.patterns"),
		OutDir:        getStringWithFallback("out-dir", "build.out-dir", "dist/vindur"),
		RootDir:       getStringWithFallback("root", "root", ""),
		Dev:           getBoolWithFallback("dev", "build.dev", false),
		Production:    getBoolWithFallback("production", "build.production", true),
		SourceMap:     getBoolWithFallback("source-map", "build.source-map", true),
		WriteCode:     getBoolWithFallback("write-code", "build.write-code", false),
		Aliases:       aliases,
		LibraryModule: getStringWithFallback("library", "library", vindur.DefaultLibrary),
		Concurrency:   getIntWithFallback("concurrency", "concurrency", 0),
	}, nil
}

// buildCheckConfig constructs the library's CheckConfig from koanf state.
func buildCheckConfig() (vindur.CheckConfig, error) {
	aliases, err := aliasesFromConfig()
	if err != nil {
		return vindur.CheckConfig{}, err
	}
	return vindur.CheckConfig{
		Patterns:      patternsFromConfig("check.patterns"),
		RootDir:       getStringWithFallback("root", "root", ""),
		Aliases:       aliases,
		LibraryModule: getStringWithFallback("library", "library", vindur.DefaultLibrary),
		Concurrency:   getIntWithFallback("concurrency", "concurrency", 0),
		Report:        buildReportConfig(),
	}, nil
}

func buildReportConfig() vindur.ReportConfig {
	return vindur.ReportConfig{
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "check.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "check.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "check.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "check.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}
}

// patternsFromConfig checks the flag key first, then the section key, then
// returns the default source globs.
func patternsFromConfig(configKey string) []string {
	if patterns := k.Strings("patterns"); len(patterns) > 0 {
		return patterns
	}
	if patterns := k.Strings(configKey); len(patterns) > 0 {
		return patterns
	}
	return []string{"src/**/*.{ts,tsx,js,jsx}"}
}

// aliasesFromConfig merges the aliases map of the config file with
// prefix=dir pairs from the --alias flag; flags win.
func aliasesFromConfig() (map[string]string, error) {
	aliases := make(map[string]string)
	for prefix, dir := range k.StringMap("aliases") {
		aliases[prefix] = dir
	}
	for _, pair := range k.Strings("alias") {
		prefix, dir, ok := strings.Cut(pair, "=")
		if !ok || prefix == "" || dir == "" {
			return nil, fmt.Errorf("invalid alias %q: want prefix=dir", pair)
		}
		aliases[prefix] = dir
	}
	return aliases, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
