package vindur

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks source discovery statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files kept after filtering
	FilesSkipped    int // Declaration, vendored, ignored or output files
}

var (
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// sourceExtensions are the file types the parser understands.
var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
}

// loadGitIgnore loads the .gitignore file once (thread-safe).
// A missing .gitignore disables the check.
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// isGeneratedOrVendored reports type declaration files and anything inside
// node_modules.
func isGeneratedOrVendored(path string) bool {
	slash := filepath.ToSlash(path)
	return strings.HasSuffix(slash, ".d.ts") ||
		strings.HasSuffix(slash, ".d.mts") ||
		strings.HasSuffix(slash, ".d.cts") ||
		strings.HasPrefix(slash, "node_modules/") ||
		strings.Contains(slash, "/node_modules/")
}

// shouldSkipFile determines if a file should be excluded from compilation.
//
// Three-layer filtering:
// 1. Extension and pattern check: non-source, .d.ts and node_modules files
// 2. Output check: files inside outDir, which may hold rewritten sources
// 3. Gitignore check (only for relative paths)
func shouldSkipFile(path, outDir string) bool {
	if !sourceExtensions[strings.ToLower(filepath.Ext(path))] || isGeneratedOrVendored(path) {
		return true
	}

	if outDir != "" && isWithin(path, outDir) {
		return true
	}

	// Absolute paths (like /tmp/...) are not affected by project gitignore
	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// isWithin reports whether path lies inside dir.
func isWithin(path, dir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// expandGlobPatternsWithStats expands globs to source files, deduplicated
// and in pattern order, and tracks statistics.
func expandGlobPatternsWithStats(patterns []string, outDir string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if shouldSkipFile(match, outDir) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	return allFiles, stats, nil
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return absPath
	}

	return rel
}
