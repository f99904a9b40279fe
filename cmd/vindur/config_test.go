package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vindur.yaml")
	configContent := `
verbose: true
library: "@acme/vindur"
aliases:
  "#/": src
  "@ui/": packages/ui

build:
  out-dir: public/css
  dev: true
  production: false
  source-map: false
  patterns:
    - "app/**/*.tsx"

check:
  strict: true
  max-same-issues: 3
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "public/css", k.String("build.out-dir"))
	assert.True(t, k.Bool("check.strict"))

	build, err := buildBuildConfig()
	require.NoError(t, err)
	assert.Equal(t, "public/css", build.OutDir)
	assert.True(t, build.Dev)
	assert.False(t, build.Production)
	assert.False(t, build.SourceMap)
	assert.Equal(t, []string{"app/**/*.tsx"}, build.Patterns)
	assert.Equal(t, "@acme/vindur", build.LibraryModule)
	assert.Equal(t, map[string]string{"#/": "src", "@ui/": "packages/ui"}, build.Aliases)

	check, err := buildCheckConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, check.Report.MaxSameIssues)
	assert.Equal(t, []string{"src/**/*.{ts,tsx,js,jsx}"}, check.Patterns)
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.vindur.yaml"))

	build, err := buildBuildConfig()
	require.NoError(t, err)
	assert.Equal(t, "dist/vindur", build.OutDir)
	assert.Equal(t, "vindur", build.LibraryModule)
	assert.False(t, build.Dev)
	assert.True(t, build.Production)
	assert.True(t, build.SourceMap)
	assert.False(t, build.WriteCode)
	assert.Empty(t, build.Aliases)
	assert.Equal(t, []string{"src/**/*.{ts,tsx,js,jsx}"}, build.Patterns)

	check, err := buildCheckConfig()
	require.NoError(t, err)
	assert.True(t, check.Report.PrintIssuedLines)
	assert.True(t, check.Report.PrintLinterName)
	assert.Equal(t, 0, check.Report.MaxIssuesPerLinter)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vindur.yaml")
	configContent := `
build:
  out-dir: from-file
check:
  strict: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("VINDUR_BUILD_OUT_DIR", "from-env")
	t.Setenv("VINDUR_CHECK_STRICT", "true")
	t.Setenv("VINDUR_CONCURRENCY", "3")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env", k.String("build.out-dir"))
	assert.True(t, k.Bool("check.strict"))
	assert.Equal(t, 3, k.Int("concurrency"))
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"VINDUR_VERBOSE":                    "verbose",
		"VINDUR_BUILD_OUT_DIR":              "build.out-dir",
		"VINDUR_BUILD_WRITE_CODE":           "build.write-code",
		"VINDUR_CHECK_MAX_ISSUES_PER_LINTER": "check.max-issues-per-linter",
		"VINDUR_OUTPUT_FORMAT":              "output-format",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestAliasFlagPairs(t *testing.T) {
	resetKoanf()
	require.NoError(t, k.Set("aliases", map[string]any{"#/": "src"}))
	require.NoError(t, k.Set("alias", []string{"#/=app", "~/=lib"}))

	aliases, err := aliasesFromConfig()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"#/": "app", "~/": "lib"}, aliases)

	require.NoError(t, k.Set("alias", []string{"broken"}))
	_, err = aliasesFromConfig()
	require.Error(t, err)
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".vindur.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "library: vindur")
	assert.Contains(t, string(data), "build:")
	assert.Contains(t, string(data), "check:")

	// the written defaults load back
	resetKoanf()
	require.NoError(t, loadConfigFromPath(".vindur.yaml"))
	build, err := buildBuildConfig()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"#/": "src"}, build.Aliases)
	assert.Equal(t, ".", build.RootDir)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".vindur.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".vindur.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".vindur.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "build:")
}

func TestBuildCommand(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("src", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "a.tsx"),
		[]byte("import { css } from 'vindur';\nexport const a = css`color: red;`;\n"), 0o644))

	cmd := rootCmd
	cmd.SetArgs([]string{"build", "--quiet", "--out-dir", "out"})
	require.NoError(t, cmd.Execute())

	css, err := os.ReadFile(filepath.Join("out", "src", "a.tsx.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "color: red;")
	assert.FileExists(t, filepath.Join("out", "src", "a.tsx.css.map"))
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"completion", "bash"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "__start_vindur")
}

func TestCompleteOutputFormat(t *testing.T) {
	names, directive := completeOutputFormat(nil, nil, "")
	assert.Equal(t, []string{"issues", "summary", "full", "json"}, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	names, _ = completeOutputFormat(nil, nil, "s")
	assert.Equal(t, []string{"summary"}, names)
}

func TestGetWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set, defaults are returned
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))

	require.NoError(t, k.Set("config.key", 7))
	assert.Equal(t, 7, getIntWithFallback("flag-key", "config.key", 42))
	require.NoError(t, k.Set("flag-key", 9))
	assert.Equal(t, 9, getIntWithFallback("flag-key", "config.key", 42))
}
