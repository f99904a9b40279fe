// Package resolver maps identifiers used inside style templates to their
// declarations, following imports across files (relative paths and
// configured aliases), detecting reference cycles and compiling style
// helpers through a shared FunctionCache.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/evaluator"
)

// Parser is the syntax collaborator.
type Parser interface {
	Parse(path string, src []byte) (*ast.File, error)
}

// extensions probed, in order, for extension-less import specifiers
var extensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Options configures a Resolver.
type Options struct {
	FS     FileSystem
	Parser Parser
	// Aliases maps import prefixes (for example "#/" or "@/") to absolute
	// directories. The longest matching prefix wins.
	Aliases map[string]string
	// Library is the module specifier whose exports are compiler markers.
	Library string
	// Cache is optional; without it helpers of imported files are compiled
	// for every compilation.
	Cache  *FunctionCache
	Logger *zap.Logger
}

// Binding is what a name resolves to.
type Binding struct {
	Name string
	Kind Kind
	// Module is the module holding Decl. It is nil for library, external
	// and cached helper bindings.
	Module *Module
	Decl   *Decl
	// Export is the export name the binding was reached through, if any.
	Export string
	// Target is the resolved file of an import or namespace import.
	Target string
	// Marker is the library export for library bindings.
	Marker string
	// Source is the import specifier for external bindings.
	Source string
	// Spec is set for helpers answered straight from the cache.
	Spec *evaluator.CallableSpec
}

// Resolver resolves names for one compilation. It memoizes loaded modules
// and folded constants; it is not safe for concurrent use. The
// FunctionCache it uses may be shared.
type Resolver struct {
	opts    Options
	log     *zap.Logger
	entry   string
	modules map[string]*Module
	sources map[string][]byte
	consts  map[string]evaluator.Value
}

// New returns a Resolver.
func New(opts Options) *Resolver {
	if opts.FS == nil {
		opts.FS = OSFS{}
	}
	if opts.Library == "" {
		opts.Library = "vindur"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		opts:    opts,
		log:     log.Named("resolver"),
		modules: make(map[string]*Module),
		sources: make(map[string][]byte),
		consts:  make(map[string]evaluator.Value),
	}
}

// Library returns the configured library specifier.
func (r *Resolver) Library() string { return r.opts.Library }

// Cache returns the shared cache, which may be nil.
func (r *Resolver) Cache() *FunctionCache { return r.opts.Cache }

// AddEntry registers the already-parsed entry file.
func (r *Resolver) AddEntry(file *ast.File) *Module {
	m := NewModule(file, r.opts.Library)
	r.modules[file.Path] = m
	r.sources[file.Path] = file.Source
	r.entry = file.Path
	return m
}

// Entry reports whether path is the entry file of this compilation.
func (r *Resolver) Entry(path string) bool { return path == r.entry }

// Load returns the module at path, reading and parsing it on first use.
func (r *Resolver) Load(path string) (*Module, error) {
	if m, ok := r.modules[path]; ok {
		return m, nil
	}
	src, err := r.read(path)
	if err != nil {
		return nil, err
	}
	if r.opts.Parser == nil {
		return nil, fmt.Errorf("load %s: no parser configured", path)
	}
	file, err := r.opts.Parser.Parse(path, src)
	if err != nil {
		return nil, &diag.Error{Kind: diag.SyntaxError, File: path, Msg: err.Error(), Err: err}
	}
	m := NewModule(file, r.opts.Library)
	r.modules[path] = m
	r.log.Debug("loaded module", zap.String("path", path), zap.Int("decls", len(m.Decls)))
	return m, nil
}

func (r *Resolver) read(path string) ([]byte, error) {
	if src, ok := r.sources[path]; ok {
		return src, nil
	}
	src, err := r.opts.FS.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r.sources[path] = src
	return src, nil
}

func (r *Resolver) exists(path string) bool {
	if _, ok := r.sources[path]; ok {
		return true
	}
	_, err := r.read(path)
	if err != nil && !isNotExist(err) {
		r.log.Warn("probe failed", zap.String("path", path), zap.Error(err))
	}
	return err == nil
}

// ResolveSpecifier maps an import specifier used in from to a file path.
// Bare package specifiers that match no alias are external and return
// ok=false with no error.
func (r *Resolver) ResolveSpecifier(from, spec string, at ast.Node) (path string, ok bool, err error) {
	var base string
	switch {
	case r.matchAlias(spec) != "":
		prefix := r.matchAlias(spec)
		base = filepath.Join(r.opts.Aliases[prefix], strings.TrimPrefix(spec, prefix))
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"), spec == ".", spec == "..":
		base = filepath.Join(filepath.Dir(from), spec)
	case filepath.IsAbs(spec):
		base = filepath.Clean(spec)
	default:
		return "", false, nil
	}

	for _, candidate := range candidates(base) {
		if r.exists(candidate) {
			return candidate, true, nil
		}
	}
	return "", false, diag.Wrap(diag.ErrFileNotFound, diag.UnresolvedReference, from, at,
		"cannot resolve import %q: file not found: %s", spec, base)
}

func candidates(base string) []string {
	out := make([]string, 0, 2*len(extensions)+1)
	if filepath.Ext(base) != "" {
		out = append(out, base)
	}
	for _, ext := range extensions {
		out = append(out, base+ext)
	}
	for _, ext := range extensions {
		out = append(out, filepath.Join(base, "index"+ext))
	}
	return out
}

func (r *Resolver) matchAlias(spec string) string {
	best := ""
	for prefix := range r.opts.Aliases {
		if !strings.HasPrefix(spec, prefix) || len(prefix) <= len(best) {
			continue
		}
		// "#/x" matches "#/", and "@ui" matches "@ui" or "@ui/x" but not "@uix"
		if strings.HasSuffix(prefix, "/") || len(spec) == len(prefix) || spec[len(prefix)] == '/' {
			best = prefix
		}
	}
	return best
}

// Resolve finds the binding of name as seen from module m. Imports are
// followed to their defining module; re-export chains are followed with
// cycle detection.
func (r *Resolver) Resolve(name string, m *Module, at ast.Node) (*Binding, error) {
	return r.resolve(name, m, at, NewTrail())
}

func (r *Resolver) resolve(name string, m *Module, at ast.Node, trail *Trail) (*Binding, error) {
	if d, ok := m.Decls[name]; ok {
		return &Binding{Name: name, Kind: d.Kind, Module: m, Decl: d}, nil
	}
	if marker, ok := m.Library[name]; ok {
		return &Binding{Name: name, Kind: KindLibrary, Marker: marker}, nil
	}
	imp, ok := m.Imports[name]
	if !ok {
		return nil, diag.New(diag.UnresolvedReference, m.Path, at, "%q is not defined", name)
	}

	target, ok, err := r.ResolveSpecifier(m.Path, imp.Source, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Binding{Name: name, Kind: KindExternal, Source: imp.Source}, nil
	}
	if imp.Imported == "*" {
		return &Binding{Name: name, Kind: KindNamespace, Target: target}, nil
	}

	if r.cacheable(target) {
		if entry, ok := r.opts.Cache.Cached(target, imp.Imported); ok && entry.Err == nil {
			return &Binding{Name: name, Kind: KindHelper, Export: imp.Imported, Target: target, Spec: entry.Spec}, nil
		}
	}
	b, err := r.ResolveExport(target, imp.Imported, at, trail)
	if err != nil {
		return nil, err
	}
	b.Name = name
	return b, nil
}

// ResolveExport resolves the export called name of the module at path.
func (r *Resolver) ResolveExport(path, name string, at ast.Node, trail *Trail) (*Binding, error) {
	if trail == nil {
		trail = NewTrail()
	}
	key := Key(path, name)
	if err := trail.Enter(key, path, at); err != nil {
		return nil, err
	}
	defer trail.Leave(key)

	m, err := r.Load(path)
	if err != nil {
		return nil, err
	}
	if local, ok := m.Exports[name]; ok {
		b, err := r.resolve(local, m, at, trail)
		if err != nil {
			return nil, err
		}
		b.Export = name
		if b.Target == "" {
			b.Target = path
		}
		return b, nil
	}
	if re, ok := m.ReExports[name]; ok {
		target, ok, err := r.ResolveSpecifier(m.Path, re.Source, at)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Binding{Name: name, Kind: KindExternal, Source: re.Source}, nil
		}
		return r.ResolveExport(target, re.Imported, at, trail)
	}
	return nil, diag.New(diag.UnresolvedReference, path, at, "module %s has no export %q", path, name)
}

// Member resolves `ns.name` where ns is a namespace binding.
func (r *Resolver) Member(ns *Binding, name string, at ast.Node) (*Binding, error) {
	return r.ResolveExport(ns.Target, name, at, NewTrail())
}

func (r *Resolver) cacheable(path string) bool {
	return r.opts.Cache != nil && !r.Entry(path)
}

// Helper returns the compiled helper for b. Exported helpers of imported
// files go through the FunctionCache; local helpers are compiled directly.
func (r *Resolver) Helper(b *Binding, at ast.Node) (*evaluator.CallableSpec, error) {
	if b.Spec != nil {
		return b.Spec, nil
	}
	if b.Decl == nil || !b.Kind.IsHelperLike() {
		return nil, diag.New(diag.UnresolvedFunctionCall, "", at, "%q is not a style helper function", b.Name)
	}
	m := b.Module
	if !r.cacheable(m.Path) || !b.Decl.Exported && b.Export == "" {
		return evaluator.Compile(b.Decl.Name, m.Path, b.Decl.Fn())
	}

	export := b.Export
	if export == "" {
		export = b.Decl.Name
	}
	entry, ok := r.opts.Cache.Lookup(m.Path, export, func() map[string]FunctionEntry {
		return compileExports(m)
	})
	if !ok {
		// exported under a name the module index did not see; compile directly
		return evaluator.Compile(b.Decl.Name, m.Path, b.Decl.Fn())
	}
	return entry.Spec, entry.Err
}

// compileExports compiles every exported helper-like declaration of m.
func compileExports(m *Module) map[string]FunctionEntry {
	out := make(map[string]FunctionEntry)
	names := make([]string, 0, len(m.Exports))
	for export := range m.Exports {
		names = append(names, export)
	}
	sort.Strings(names)
	for _, export := range names {
		d, ok := m.Decls[m.Exports[export]]
		if !ok || !d.Kind.IsHelperLike() {
			continue
		}
		spec, err := evaluator.Compile(d.Name, m.Path, d.Fn())
		out[export] = FunctionEntry{Spec: spec, Err: err}
	}
	return out
}

// Scope returns an evaluator.Scope resolving identifiers from m. Constants
// are folded recursively; the trail rejects value cycles.
func (r *Resolver) Scope(m *Module, trail *Trail) evaluator.Scope {
	return evaluator.ScopeFunc(func(name string, ref *ast.Ident) (evaluator.Value, error) {
		b, err := r.resolve(name, m, ref, trail)
		if err != nil {
			return evaluator.Value{}, err
		}
		return r.Constant(b, ref, trail)
	})
}

// Constant folds the value of a constant binding. Bindings of any other kind
// return an error wrapping evaluator.ErrNotConstant.
func (r *Resolver) Constant(b *Binding, at ast.Node, trail *Trail) (evaluator.Value, error) {
	if b.Kind != KindConstant || b.Decl == nil || b.Decl.Value == nil {
		return evaluator.Value{}, fmt.Errorf("%s is a %s: %w", b.Name, b.Kind, evaluator.ErrNotConstant)
	}
	key := Key(b.Module.Path, b.Decl.Name)
	if v, ok := r.consts[key]; ok {
		return v, nil
	}
	if err := trail.Enter(key, b.Module.Path, at); err != nil {
		return evaluator.Value{}, err
	}
	defer trail.Leave(key)

	v, err := evaluator.Fold(b.Decl.Value, r.Scope(b.Module, trail), b.Module.Path)
	if err != nil {
		if errors.Is(err, evaluator.ErrNotConstant) {
			return evaluator.Value{}, fmt.Errorf("%s is not a literal constant: %w", b.Name, err)
		}
		return evaluator.Value{}, err
	}
	r.consts[key] = v
	return v, nil
}
