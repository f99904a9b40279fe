// Package vindur compiles CSS-in-JS style declarations into static
// stylesheets at build time.
//
// Every css, styled, keyframes and createGlobalStyle template of a source
// file is resolved to plain CSS and replaced in the source by a generated
// class name, so no style code runs in the browser.
//
// # Compiling one file
//
//	cache := vindur.NewFunctionCache(nil)
//	result, err := vindur.Compile(vindur.Config{
//		Path:    "/app/src/button.tsx",
//		Dev:     true,
//		Aliases: map[string]string{"#/": "/app/src"},
//		Cache:   cache,
//	})
//
// result.Code holds the rewritten source and result.CSS the stylesheet.
//
// # Building a project
//
//	result, err := vindur.Build(vindur.BuildConfig{
//		Patterns: []string{"src/**/*.tsx"},
//		OutDir:   "dist/styles",
//	})
//
// # CLI Tool
//
//	go install github.com/lucasols/vindur-sub001/cmd/vindur@latest
package vindur

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/resolver"
	"github.com/lucasols/vindur-sub001/internal/stylesheet"
	"github.com/lucasols/vindur-sub001/internal/tsparse"
)

// DefaultLibrary is the import specifier of the runtime library whose
// exports mark style declarations.
const DefaultLibrary = "vindur"

type (
	// FunctionCache holds compiled style helpers shared by every compilation
	// of a build session.
	FunctionCache = resolver.FunctionCache
	// FileSystem reads source files for import resolution.
	FileSystem = resolver.FileSystem
	// MapFS is an in-memory FileSystem keyed by absolute path.
	MapFS = resolver.MapFS
	// Edit replaces a byte range of the source.
	Edit = stylesheet.Edit
	// Declaration describes one generated identifier.
	Declaration = stylesheet.Declaration
	// Warning is a dev-mode finding.
	Warning = diag.Warning
	// Error is a fatal compile error.
	Error = diag.Error
	// CacheEvent is reported for every compiled helper and every cache hit.
	CacheEvent = resolver.Event
	// CacheOption configures a FunctionCache.
	CacheOption = resolver.CacheOption
)

// NewFunctionCache returns an empty cache that logs its events to log (which
// may be nil).
func NewFunctionCache(log *zap.Logger, opts ...CacheOption) *FunctionCache {
	return resolver.NewFunctionCache(append([]CacheOption{resolver.WithCacheLogger(log)}, opts...)...)
}

// WithCacheObserver delivers every cache event to fn, possibly from several
// goroutines at once.
func WithCacheObserver(fn func(CacheEvent)) CacheOption {
	return resolver.WithObserver(fn)
}

// ApplyEdits applies edits to src.
func ApplyEdits(src []byte, edits []Edit) string {
	return stylesheet.ApplyEdits(src, edits)
}

// Config holds the inputs of one compilation.
type Config struct {
	// Path is the absolute path of the file being compiled.
	Path string
	// Source is the file content. When nil it is read through FS.
	Source []byte

	Dev        bool
	Production bool

	// Aliases maps import prefixes such as "#/" to absolute directories.
	Aliases map[string]string
	// Cache is optional and may be shared between concurrent compilations.
	Cache     *FunctionCache
	SourceMap bool
	OnWarning func(Warning)

	// RootDir makes generated identifiers independent of the checkout
	// location. Empty means hash the absolute path.
	RootDir       string
	LibraryModule string

	Logger *zap.Logger
	FS     FileSystem
}

// Result is the output of one compilation.
type Result struct {
	// Code is Source with Edits applied.
	Code         string
	Edits        []Edit
	CSS          string
	SourceMap    []byte
	Warnings     []Warning
	Declarations []Declaration
	FileHash     string
}

// Compile compiles the style declarations of one file. Errors are *Error
// values (or wrap one); a failed compilation returns no partial result.
func Compile(config Config) (*Result, error) {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fsys := config.FS
	if fsys == nil {
		fsys = resolver.OSFS{}
	}
	library := config.LibraryModule
	if library == "" {
		library = DefaultLibrary
	}

	path := config.Path
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve path %s: %w", path, err)
		}
		path = abs
	}
	path = filepath.Clean(path)

	src := config.Source
	if src == nil {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		src = data
	}

	file, err := tsparse.Parse(path, src)
	if err != nil {
		return nil, &diag.Error{Kind: diag.SyntaxError, File: path, Msg: err.Error(), Err: err}
	}

	r := resolver.New(resolver.Options{
		FS:      fsys,
		Parser:  tsparse.New(),
		Aliases: config.Aliases,
		Library: library,
		Cache:   config.Cache,
		Logger:  log,
	})
	entry := r.AddEntry(file)

	out, err := stylesheet.Build(r, entry, stylesheet.Options{
		Dev:        config.Dev,
		Production: config.Production,
		RootDir:    config.RootDir,
		SourceMap:  config.SourceMap,
		CSSFile:    filepath.Base(path) + ".css",
		Logger:     log,
		OnWarning:  config.OnWarning,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Code:         stylesheet.ApplyEdits(src, out.Edits),
		Edits:        out.Edits,
		CSS:          out.CSS,
		Warnings:     out.Warnings,
		Declarations: out.Declarations,
		FileHash:     out.FileHash,
	}
	if out.Map != nil {
		data, err := out.Map.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode source map: %w", err)
		}
		result.SourceMap = data
	}
	return result, nil
}
