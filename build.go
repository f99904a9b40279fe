package vindur

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lucasols/vindur-sub001/internal/report"
)

// Stats are the statistics of a Build or Check run.
type Stats = report.Stats

// BuildConfig configures a multi-file build.
type BuildConfig struct {
	// Patterns are doublestar globs of source files, relative to the
	// working directory.
	Patterns []string
	// OutDir receives <rel>.css, <rel>.css.map and, with WriteCode, the
	// rewritten source at <rel>.
	OutDir string
	// RootDir is the project root used for relative output paths and
	// stable identifiers. Defaults to the working directory.
	RootDir string

	Dev        bool
	Production bool
	SourceMap  bool
	WriteCode  bool

	// Aliases maps import prefixes to directories; relative directories
	// are taken from RootDir.
	Aliases       map[string]string
	LibraryModule string

	// Concurrency bounds parallel compilations. Zero means GOMAXPROCS.
	Concurrency int
	Logger      *zap.Logger
	// OnWarning is called once per warning, never concurrently.
	OnWarning func(Warning)
}

// BuildResult summarizes a build. It is returned even when some files
// failed.
type BuildResult struct {
	Stats    Stats
	Warnings []Warning
	// Written lists every file written, in compile order.
	Written []string
}

// compiled is the outcome of compiling one file.
type compiled struct {
	path   string // as matched by the glob
	abs    string
	src    []byte
	result *Result
	err    error
}

// session holds what every compilation of one run shares.
type session struct {
	rootDir string
	aliases map[string]string
	library string
	cache   *FunctionCache
	log     *zap.Logger
	limit   int

	mu        sync.Mutex
	onWarning func(Warning)
}

func newSession(rootDir string, aliases map[string]string, library string, concurrency int, log *zap.Logger) (*session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		rootDir = cwd
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root dir: %w", err)
	}

	abs := make(map[string]string, len(aliases))
	for prefix, dir := range aliases {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(rootDir, dir)
		}
		abs[prefix] = filepath.Clean(dir)
	}

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &session{
		rootDir: rootDir,
		aliases: abs,
		library: library,
		cache:   NewFunctionCache(log),
		log:     log,
		limit:   concurrency,
	}, nil
}

func (s *session) warn(w Warning) {
	if s.onWarning == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWarning(w)
}

// compileAll compiles files in parallel. A failing file does not stop the
// others; its error is kept in its slot.
func (s *session) compileAll(ctx context.Context, files []string, base Config) []compiled {
	out := make([]compiled, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = compiled{path: path, err: err}
				return nil
			}
			out[i] = s.compileOne(path, base)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *session) compileOne(path string, base Config) compiled {
	c := compiled{path: path}
	abs, err := filepath.Abs(path)
	if err != nil {
		c.err = fmt.Errorf("resolve path %s: %w", path, err)
		return c
	}
	c.abs = abs

	// #nosec G304 - paths come from the configured source globs
	src, err := os.ReadFile(abs)
	if err != nil {
		c.err = fmt.Errorf("read %s: %w", path, err)
		return c
	}
	c.src = src

	config := base
	config.Path = abs
	config.Source = src
	config.Aliases = s.aliases
	config.Cache = s.cache
	config.RootDir = s.rootDir
	config.LibraryModule = s.library
	config.Logger = s.log
	config.OnWarning = s.warn

	c.result, c.err = Compile(config)
	if c.err != nil {
		s.log.Debug("compile failed", zap.String("path", path), zap.Error(c.err))
	}
	return c
}

// stats folds the per-file outcomes and cache counters into Stats.
func (s *session) stats(scan ScanStats, results []compiled) Stats {
	cache := s.cache.Stats()
	stats := Stats{
		FilesDiscovered: scan.FilesDiscovered,
		FilesScanned:    scan.FilesScanned,
		FilesSkipped:    scan.FilesSkipped,
		Declarations:    make(map[string]int),
		CacheCompiled:   cache.Compiled,
		CacheHits:       cache.Hits,
	}
	for _, c := range results {
		if c.err != nil {
			stats.FilesFailed++
			continue
		}
		stats.CSSBytes += len(c.result.CSS)
		for _, d := range c.result.Declarations {
			stats.Declarations[d.Kind.String()]++
		}
	}
	return stats
}

// Build compiles every file matched by config.Patterns with one shared
// FunctionCache and writes the outputs. Per-file failures are combined into
// the returned error; the result still describes everything that succeeded.
func Build(config BuildConfig) (*BuildResult, error) {
	return BuildContext(context.Background(), config)
}

// BuildContext is Build with a context that stops scheduling new files when
// cancelled.
func BuildContext(ctx context.Context, config BuildConfig) (*BuildResult, error) {
	s, err := newSession(config.RootDir, config.Aliases, config.LibraryModule, config.Concurrency, config.Logger)
	if err != nil {
		return nil, err
	}
	s.onWarning = config.OnWarning

	outDir := config.OutDir
	if outDir == "" {
		outDir = filepath.Join(s.rootDir, "dist", "vindur")
	}
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(s.rootDir, outDir)
	}

	files, scan, err := expandGlobPatternsWithStats(config.Patterns, outDir)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	s.log.Info("compiling sources",
		zap.Int("files", len(files)),
		zap.Int("skipped", scan.FilesSkipped))

	results := s.compileAll(ctx, files, Config{
		Dev:        config.Dev,
		Production: config.Production,
		SourceMap:  config.SourceMap,
	})

	result := &BuildResult{}
	var errs error
	for _, c := range results {
		if c.err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.path, c.err))
			continue
		}
		result.Warnings = append(result.Warnings, c.result.Warnings...)
		written, err := writeOutputs(c, s.rootDir, outDir, config.WriteCode)
		result.Written = append(result.Written, written...)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	result.Stats = s.stats(scan, results)

	s.log.Info("build finished",
		zap.Int("written", len(result.Written)),
		zap.Int("failed", result.Stats.FilesFailed),
		zap.Int64("helpers_compiled", result.Stats.CacheCompiled),
		zap.Int64("helper_cache_hits", result.Stats.CacheHits))
	return result, errs
}

// writeOutputs writes the stylesheet, source map and rewritten source of c
// under outDir, mirroring its path relative to rootDir.
func writeOutputs(c compiled, rootDir, outDir string, writeCode bool) ([]string, error) {
	rel, err := filepath.Rel(rootDir, c.abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(c.abs)
	}
	target := filepath.Join(outDir, rel)

	type output struct {
		path string
		data []byte
	}
	var outputs []output
	if c.result.CSS != "" {
		outputs = append(outputs, output{target + ".css", []byte(c.result.CSS)})
		if c.result.SourceMap != nil {
			outputs = append(outputs, output{target + ".css.map", c.result.SourceMap})
		}
	}
	if writeCode {
		outputs = append(outputs, output{target, []byte(c.result.Code)})
	}

	var written []string
	for _, o := range outputs {
		if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
			return written, fmt.Errorf("create output directory for %s: %w", c.path, err)
		}
		if err := os.WriteFile(o.path, o.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", o.path, err)
		}
		written = append(written, o.path)
	}
	return written, nil
}
